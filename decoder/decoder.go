// Package decoder streams raw video frames out of an FFmpeg process.
package decoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"

	"github.com/richinsley/glvideo/frame"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Info is the subset of ffprobe output the player needs.
type Info struct {
	Width     int
	Height    int
	FrameRate float64
	// Duration is in seconds, zero when unknown.
	Duration float64
	// Frames is the container's frame count, zero when unknown.
	Frames int
}

func (i Info) Size() image.Point { return image.Pt(i.Width, i.Height) }

type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
		NbFrames     string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe runs ffprobe on path and returns the first video stream's info.
func Probe(path string) (Info, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to probe %s: %w", path, err)
	}
	return parseProbe(out)
}

func parseProbe(data string) (Info, error) {
	var p probeOutput
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Info{}, fmt.Errorf("failed to parse probe output: %w", err)
	}
	for _, s := range p.Streams {
		if s.CodecType != "video" {
			continue
		}
		info := Info{Width: s.Width, Height: s.Height}
		info.FrameRate = parseRate(s.AvgFrameRate)
		if info.FrameRate == 0 {
			info.FrameRate = parseRate(s.RFrameRate)
		}
		info.Duration, _ = strconv.ParseFloat(s.Duration, 64)
		if info.Duration == 0 {
			info.Duration, _ = strconv.ParseFloat(p.Format.Duration, 64)
		}
		info.Frames, _ = strconv.Atoi(s.NbFrames)
		if info.Width <= 0 || info.Height <= 0 {
			return Info{}, fmt.Errorf("video stream has invalid size %dx%d", info.Width, info.Height)
		}
		return info, nil
	}
	return Info{}, errors.New("no video stream found")
}

// parseRate parses an ffprobe rational such as "30000/1001".
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// Options controls how Open starts FFmpeg.
type Options struct {
	Layout frame.Layout
	// Realtime paces decoding at the native frame rate (-re).
	Realtime bool
	// FFmpegPath overrides the ffmpeg binary.
	FFmpegPath string
}

// Decoder reads fixed-size raw frames from a byte stream.
type Decoder struct {
	info   Info
	layout frame.Layout
	r      io.Reader
	buf    []byte
	n      int
	cmd    *exec.Cmd
}

func inputArgs(opts Options) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{}
	if opts.Realtime {
		args["re"] = ""
	}
	return args
}

func outputArgs(opts Options) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"format":  "rawvideo",
		"pix_fmt": opts.Layout.Name,
		"an":      "",
	}
}

// Open probes path and starts an FFmpeg process that decodes it into
// opts.Layout.
func Open(path string, opts Options) (*Decoder, error) {
	info, err := Probe(path)
	if err != nil {
		return nil, err
	}
	stream := ffmpeg.Input(path, inputArgs(opts)).
		Output("pipe:", outputArgs(opts)).
		ErrorToStdOut()
	if opts.FFmpegPath != "" {
		stream = stream.SetFfmpegPath(opts.FFmpegPath)
	}
	cmd := stream.Compile()
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ffmpeg: %w", err)
	}
	log.Printf("Decoding %s: %dx%d @ %.3f fps as %s", path, info.Width, info.Height, info.FrameRate, opts.Layout.Name)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	d := NewReader(stdout, info, opts.Layout)
	d.cmd = cmd
	return d, nil
}

// NewReader decodes frames of the given layout from r, which must carry
// tightly packed frames back to back.
func NewReader(r io.Reader, info Info, layout frame.Layout) *Decoder {
	return &Decoder{
		info:   info,
		layout: layout,
		r:      r,
		buf:    make([]byte, layout.FrameBytes(info.Size())),
	}
}

func (d *Decoder) Info() Info { return d.info }

// ReadFrame returns the next frame or io.EOF at the end of the stream.
// The returned planes are only valid until the next call.
func (d *Decoder) ReadFrame() (*frame.Frame, error) {
	if _, err := io.ReadFull(d.r, d.buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated frame %d: %w", d.n, err)
		}
		return nil, err
	}
	f, err := frame.Split(d.layout, d.info.Size(), d.buf)
	if err != nil {
		return nil, err
	}
	if d.info.FrameRate > 0 {
		f.PTS = float64(d.n) / d.info.FrameRate
	}
	d.n++
	return f, nil
}

// Close stops the FFmpeg process, if any.
func (d *Decoder) Close() error {
	if d.cmd == nil || d.cmd.Process == nil {
		return nil
	}
	d.cmd.Process.Kill()
	err := d.cmd.Wait()
	d.cmd = nil
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Killed on purpose.
		return nil
	}
	return err
}
