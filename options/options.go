package options

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/richinsley/glvideo/frame"
	"gopkg.in/yaml.v3"
)

// PlayerOptions holds the command line configuration.
type PlayerOptions struct {
	Input    *string
	PixFmt   *string
	Headless *bool
	Width    *int
	Height   *int
	Filter   *string // texture filter for video planes: linear or nearest
	Wrap     *string // texture wrap for video planes: clamp, repeat or mirror
	Growth   *float64
	Rect     *bool // rectangle addressing for the offscreen surface
	// Screenshot, if set, saves the last rendered frame to this path.
	Screenshot *string
	Record     *string
	FPS        *int
	Codec      *string
	Frames     *int // stop after this many frames, 0 for the whole input
	Realtime   *bool
	Vertex     *string // custom vertex stage file
	Fragment   *string // custom fragment stage file
	Translate  *bool   // translate custom stages from WebGL2 GLSL
	Overlay    *bool
	FFMPEGPath *string
	// Config is a YAML file of flag defaults, keyed by flag name.
	Config *string
	Help   *bool
}

// Parse reads args (without the program name). The ffmpeg path falls
// back to the GLVIDEO_FFMPEG environment variable.
func Parse(args []string, output io.Writer) (*PlayerOptions, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("glvideo", flag.ContinueOnError)
	fs.SetOutput(output)
	o := &PlayerOptions{
		Input:      fs.String("input", "", "Video file to play"),
		PixFmt:     fs.String("pixfmt", "yuv420p", "Decoded pixel layout ("+strings.Join(frame.Names(), ", ")+")"),
		Headless:   fs.Bool("headless", false, "Render without a window (EGL)"),
		Width:      fs.Int("width", 1280, "Output width"),
		Height:     fs.Int("height", 720, "Output height"),
		Filter:     fs.String("filter", "linear", "Video texture filter: linear or nearest"),
		Wrap:       fs.String("wrap", "clamp", "Video texture wrap: clamp, repeat or mirror"),
		Growth:     fs.Float64("growth", 1.2, "Growth factor when video textures must be enlarged"),
		Rect:       fs.Bool("rect", false, "Use rectangle addressing for the offscreen surface"),
		Screenshot: fs.String("screenshot", "", "Save the last frame to this file (.png, .jpg, .bmp, .tif)"),
		Record:     fs.String("record", "", "Record the rendered output to this file"),
		FPS:        fs.Int("fps", 0, "Recording frame rate (defaults to the input rate)"),
		Codec:      fs.String("codec", "h264", "Recording codec: h264 or hevc"),
		Frames:     fs.Int("frames", 0, "Stop after this many frames (0 plays everything)"),
		Realtime:   fs.Bool("realtime", false, "Decode at the native frame rate"),
		Vertex:     fs.String("vertex", "", "Custom vertex shader file"),
		Fragment:   fs.String("fragment", "", "Custom fragment shader file"),
		Translate:  fs.Bool("translate", false, "Translate custom shaders from WebGL2 GLSL"),
		Overlay:    fs.Bool("overlay", true, "Draw the progress overlay"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable (from GLVIDEO_FFMPEG env var if not set)"),
		Config:     fs.String("config", "", "YAML file with defaults for any flag"),
		Help:       fs.Bool("help", false, "Show help message"),
	}
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	if *o.Config != "" {
		if err := loadConfig(fs, *o.Config); err != nil {
			return nil, fs, err
		}
	}
	if *o.FFMPEGPath == "" {
		*o.FFMPEGPath = os.Getenv("GLVIDEO_FFMPEG")
	}
	if *o.Help {
		return o, fs, nil
	}
	return o, fs, o.validate()
}

// loadConfig applies the values in a YAML file to every flag that was not
// given on the command line.
func loadConfig(fs *flag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, name := range keys {
		if name == "config" || name == "help" {
			return fmt.Errorf("config %s: %q cannot be set from a file", path, name)
		}
		if fs.Lookup(name) == nil {
			return fmt.Errorf("config %s: unknown option %q", path, name)
		}
		if set[name] {
			continue
		}
		if err := fs.Set(name, fmt.Sprint(values[name])); err != nil {
			return fmt.Errorf("config %s: %s: %w", path, name, err)
		}
	}
	return nil
}

func (o *PlayerOptions) validate() error {
	if *o.Input == "" {
		return fmt.Errorf("-input is required")
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid output size %dx%d", *o.Width, *o.Height)
	}
	if *o.Growth < 1 {
		return fmt.Errorf("-growth must be at least 1, got %v", *o.Growth)
	}
	if *o.Frames < 0 || *o.FPS < 0 {
		return fmt.Errorf("-frames and -fps must not be negative")
	}
	if *o.Codec != "h264" && *o.Codec != "hevc" {
		return fmt.Errorf("unknown codec %q", *o.Codec)
	}
	if _, err := frame.LayoutByName(*o.PixFmt); err != nil {
		return err
	}
	if *o.Headless && *o.Record == "" && *o.Screenshot == "" {
		return fmt.Errorf("-headless needs -record or -screenshot")
	}
	return nil
}
