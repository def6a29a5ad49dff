// Package capture encodes rendered RGBA frames to a video file through an
// FFmpeg process.
package capture

import (
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Options describes the output stream.
type Options struct {
	Size image.Point
	FPS  int
	// Codec is "h264" or "hevc".
	Codec      string
	FFmpegPath string
}

// Recorder pipes frames into FFmpeg. Frames must be top row first RGBA
// of exactly Options.Size.
type Recorder struct {
	size   image.Point
	pipe   *io.PipeWriter
	errc   chan error
	frames int
}

func inputArgs(opts Options) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", opts.Size.X, opts.Size.Y),
		"framerate": strconv.Itoa(opts.FPS),
	}
}

func outputArgs(path string, opts Options) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{"pix_fmt": "yuv420p"}
	if opts.Codec == "hevc" {
		args["c:v"] = "libx265"
		if strings.EqualFold(filepath.Ext(path), ".mp4") {
			args["tag:v"] = "hvc1"
		}
	} else {
		args["c:v"] = "libx264"
	}
	return args
}

// Start launches FFmpeg writing to path.
func Start(path string, opts Options) (*Recorder, error) {
	if opts.Size.X <= 0 || opts.Size.Y <= 0 {
		return nil, fmt.Errorf("invalid capture size %v", opts.Size)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid capture frame rate %d", opts.FPS)
	}
	pipeReader, pipeWriter := io.Pipe()
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs(opts)).
		Output(path, outputArgs(path, opts)).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if opts.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(opts.FFmpegPath)
	}

	r := &Recorder{size: opts.Size, pipe: pipeWriter, errc: make(chan error, 1)}
	go func() {
		err := ffmpegCmd.Run()
		// Unblock a writer stuck on a dead process.
		pipeReader.CloseWithError(fmt.Errorf("ffmpeg exited: %v", err))
		r.errc <- err
	}()
	log.Printf("Recording %dx%d @ %d fps to %s", opts.Size.X, opts.Size.Y, opts.FPS, path)
	return r, nil
}

// WriteFrame appends one frame.
func (r *Recorder) WriteFrame(img *image.NRGBA) error {
	if img.Bounds().Size() != r.size {
		return fmt.Errorf("frame size %v does not match recording size %v", img.Bounds().Size(), r.size)
	}
	rowSize := r.size.X * 4
	for y := 0; y < r.size.Y; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+rowSize]
		if _, err := r.pipe.Write(row); err != nil {
			return fmt.Errorf("failed to write frame %d to ffmpeg: %w", r.frames, err)
		}
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int { return r.frames }

// Close finishes the stream and waits for FFmpeg to exit.
func (r *Recorder) Close() error {
	if r.pipe == nil {
		return nil
	}
	r.pipe.Close()
	r.pipe = nil
	if err := <-r.errc; err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	log.Printf("Recording finished after %d frames", r.frames)
	return nil
}
