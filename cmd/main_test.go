package main

import (
	"io"
	"testing"

	"github.com/richinsley/glvideo/decoder"
	"github.com/richinsley/glvideo/options"
)

func parse(t *testing.T, args ...string) *options.PlayerOptions {
	t.Helper()
	o, _, err := options.Parse(append([]string{"-input", "clip.mp4"}, args...), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestFrameTotal(t *testing.T) {
	tests := []struct {
		args   []string
		frames int
		want   int64
	}{
		{nil, 0, -1},
		{nil, 240, 240},
		{[]string{"-frames", "10"}, 0, 10},
		{[]string{"-frames", "10"}, 4, 4},
		{[]string{"-frames", "10"}, 240, 10},
	}
	for _, tt := range tests {
		got := frameTotal(parse(t, tt.args...), decoder.Info{Frames: tt.frames})
		if got != tt.want {
			t.Errorf("frameTotal(%v, %d frames) = %d, want %d", tt.args, tt.frames, got, tt.want)
		}
	}
}

func TestRecordFPS(t *testing.T) {
	if got := recordFPS(parse(t, "-fps", "24"), decoder.Info{FrameRate: 60}); got != 24 {
		t.Errorf("explicit fps = %d", got)
	}
	if got := recordFPS(parse(t), decoder.Info{FrameRate: 29.97}); got != 30 {
		t.Errorf("probed fps = %d", got)
	}
	if got := recordFPS(parse(t), decoder.Info{}); got != 30 {
		t.Errorf("fallback fps = %d", got)
	}
}
