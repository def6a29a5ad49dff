package decoder

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/richinsley/glvideo/frame"
)

const probeJSON = `{
  "streams": [
    {"codec_type": "audio", "duration": "9.5"},
    {"codec_type": "video", "width": 640, "height": 360,
     "r_frame_rate": "30000/1001", "avg_frame_rate": "0/0",
     "duration": "10.010000", "nb_frames": "300"}
  ],
  "format": {"duration": "10.5"}
}`

func TestParseProbe(t *testing.T) {
	info, err := parseProbe(probeJSON)
	if err != nil {
		t.Fatal(err)
	}
	if info.Width != 640 || info.Height != 360 || info.Frames != 300 {
		t.Errorf("info = %+v", info)
	}
	if math.Abs(info.FrameRate-29.97) > 0.01 {
		t.Errorf("frame rate = %v, want 29.97", info.FrameRate)
	}
	if info.Duration != 10.01 {
		t.Errorf("duration = %v, want 10.01", info.Duration)
	}
}

func TestParseProbeErrors(t *testing.T) {
	for name, data := range map[string]string{
		"not json":  "{",
		"no video":  `{"streams": [{"codec_type": "audio"}]}`,
		"zero size": `{"streams": [{"codec_type": "video", "width": 0, "height": 0}]}`,
	} {
		if _, err := parseProbe(data); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestParseRate(t *testing.T) {
	tests := map[string]float64{"25/1": 25, "24": 24, "0/0": 0, "x/1": 0, "": 0}
	for in, want := range tests {
		if got := parseRate(in); got != want {
			t.Errorf("parseRate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestReadFrame(t *testing.T) {
	layout, _ := frame.LayoutByName("gray")
	info := Info{Width: 2, Height: 2, FrameRate: 4}
	stream := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	d := NewReader(bytes.NewReader(stream), info, layout)

	f, err := d.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(f.Planes[0], []byte{1, 2, 3, 4}) || f.PTS != 0 {
		t.Errorf("frame 0 = %v @ %v", f.Planes[0], f.PTS)
	}
	f, err = d.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if f.Planes[0][0] != 5 || f.PTS != 0.25 {
		t.Errorf("frame 1 = %v @ %v", f.Planes[0], f.PTS)
	}
	if _, err := d.ReadFrame(); err == nil || errors.Is(err, io.EOF) {
		t.Errorf("partial trailing frame: err = %v, want truncation error", err)
	}
	if _, err := d.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close without a process: %v", err)
	}
}

func TestArgs(t *testing.T) {
	layout, _ := frame.LayoutByName("nv12")
	out := outputArgs(Options{Layout: layout})
	if out["pix_fmt"] != "nv12" || out["format"] != "rawvideo" {
		t.Errorf("output args = %v", out)
	}
	if _, ok := inputArgs(Options{})["re"]; ok {
		t.Error("-re set without realtime")
	}
	if _, ok := inputArgs(Options{Realtime: true})["re"]; !ok {
		t.Error("-re missing for realtime")
	}
}
