package options

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("GLVIDEO_FFMPEG", "/opt/ffmpeg")
	o, _, err := Parse([]string{"-input", "clip.mp4"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if *o.PixFmt != "yuv420p" || *o.Width != 1280 || *o.Growth != 1.2 || !*o.Overlay {
		t.Errorf("unexpected defaults: pixfmt %s width %d growth %v overlay %v", *o.PixFmt, *o.Width, *o.Growth, *o.Overlay)
	}
	if *o.FFMPEGPath != "/opt/ffmpeg" {
		t.Errorf("ffmpeg path = %q, want env fallback", *o.FFMPEGPath)
	}
}

func TestParseFlagWinsOverEnv(t *testing.T) {
	t.Setenv("GLVIDEO_FFMPEG", "/opt/ffmpeg")
	o, _, err := Parse([]string{"-input", "a.mkv", "-ffmpeg", "/usr/bin/ffmpeg"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if *o.FFMPEGPath != "/usr/bin/ffmpeg" {
		t.Errorf("ffmpeg path = %q", *o.FFMPEGPath)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "-input"},
		{[]string{"-input", "a", "-width", "0"}, "size"},
		{[]string{"-input", "a", "-growth", "0.5"}, "growth"},
		{[]string{"-input", "a", "-codec", "vp9"}, "codec"},
		{[]string{"-input", "a", "-pixfmt", "p010le"}, "p010le"},
		{[]string{"-input", "a", "-headless"}, "headless"},
		{[]string{"-bogus"}, "bogus"},
	}
	for _, tt := range tests {
		_, _, err := Parse(tt.args, io.Discard)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Parse(%v) error = %v, want mention of %q", tt.args, err, tt.want)
		}
	}
}

func TestHelpSkipsValidation(t *testing.T) {
	o, _, err := Parse([]string{"-help"}, io.Discard)
	if err != nil || !*o.Help {
		t.Errorf("help: %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glvideo.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigFile(t *testing.T) {
	path := writeConfig(t, "input: clip.mkv\npixfmt: nv12\nwidth: 640\ngrowth: 1.5\noverlay: false\n")
	o, _, err := Parse([]string{"-config", path, "-width", "320"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if *o.Input != "clip.mkv" || *o.PixFmt != "nv12" || *o.Growth != 1.5 || *o.Overlay {
		t.Errorf("config values not applied: input %s pixfmt %s growth %v overlay %v", *o.Input, *o.PixFmt, *o.Growth, *o.Overlay)
	}
	if *o.Width != 320 {
		t.Errorf("width = %d, command line should win over the file", *o.Width)
	}
}

func TestConfigFileErrors(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"bogus: 1\n", "bogus"},
		{"width: wide\n", "width"},
		{"config: other.yml\n", "config"},
		{"input: [\n", "parse"},
	}
	for _, tt := range tests {
		path := writeConfig(t, tt.body)
		_, _, err := Parse([]string{"-config", path, "-input", "a"}, io.Discard)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("config %q: error = %v, want mention of %q", tt.body, err, tt.want)
		}
	}
	if _, _, err := Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.yml")}, io.Discard); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
