package capture

import (
	"image"
	"testing"
)

func TestArgs(t *testing.T) {
	opts := Options{Size: image.Pt(320, 240), FPS: 25, Codec: "hevc"}
	in := inputArgs(opts)
	if in["s"] != "320x240" || in["framerate"] != "25" || in["pix_fmt"] != "rgba" {
		t.Errorf("input args = %v", in)
	}
	out := outputArgs("clip.MP4", opts)
	if out["c:v"] != "libx265" || out["tag:v"] != "hvc1" {
		t.Errorf("hevc mp4 output args = %v", out)
	}
	out = outputArgs("clip.mkv", Options{Codec: "h264"})
	if out["c:v"] != "libx264" {
		t.Errorf("h264 output args = %v", out)
	}
	if _, ok := out["tag:v"]; ok {
		t.Error("tag:v set for h264")
	}
}

func TestStartValidates(t *testing.T) {
	if _, err := Start("out.mp4", Options{Size: image.Pt(0, 10), FPS: 30}); err == nil {
		t.Error("expected an error for an empty size")
	}
	if _, err := Start("out.mp4", Options{Size: image.Pt(10, 10)}); err == nil {
		t.Error("expected an error for a zero frame rate")
	}
}

func TestWriteFrameChecksSize(t *testing.T) {
	r := &Recorder{size: image.Pt(4, 4)}
	if err := r.WriteFrame(image.NewNRGBA(image.Rect(0, 0, 2, 2))); err == nil {
		t.Error("expected a size mismatch error")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on an unstarted recorder: %v", err)
	}
}
