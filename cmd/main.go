package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/schollz/progressbar/v3"
	"github.com/richinsley/glvideo/capture"
	"github.com/richinsley/glvideo/decoder"
	"github.com/richinsley/glvideo/frame"
	"github.com/richinsley/glvideo/glfwcontext"
	"github.com/richinsley/glvideo/graphics"
	"github.com/richinsley/glvideo/graphics/gogl"
	"github.com/richinsley/glvideo/headless"
	"github.com/richinsley/glvideo/options"
	"github.com/richinsley/glvideo/player"
	"github.com/richinsley/glvideo/shader"
	"github.com/richinsley/glvideo/snapshot"
	"github.com/richinsley/glvideo/texture"
	"github.com/richinsley/glvideo/translator"
)

func init() {
	runtime.LockOSThread()
}

// loadStage reads a custom shader stage, translating it when asked.
func loadStage(path, stage string, translate, isGLES bool) (*shader.Source, error) {
	if path == "" {
		return nil, nil
	}
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s shader: %w", stage, err)
	}
	if !translate {
		return &shader.Source{Code: string(code)}, nil
	}
	src, err := translator.Translate(string(code), stage, isGLES)
	if err != nil {
		return nil, err
	}
	return &src, nil
}

func recordFPS(opts *options.PlayerOptions, info decoder.Info) int {
	if *opts.FPS > 0 {
		return *opts.FPS
	}
	if fps := int(math.Round(info.FrameRate)); fps > 0 {
		return fps
	}
	return 30
}

// frameTotal is the number of frames a run will render, or -1 when the
// input does not say.
func frameTotal(opts *options.PlayerOptions, info decoder.Info) int64 {
	if *opts.Frames > 0 {
		if info.Frames > 0 {
			return int64(min(*opts.Frames, info.Frames))
		}
		return int64(*opts.Frames)
	}
	if info.Frames > 0 {
		return int64(info.Frames)
	}
	return -1
}

func run(opts *options.PlayerOptions) (err error) {
	layout, err := frame.LayoutByName(*opts.PixFmt)
	if err != nil {
		return err
	}
	dec, err := decoder.Open(*opts.Input, decoder.Options{
		Layout:     layout,
		Realtime:   *opts.Realtime,
		FFmpegPath: *opts.FFMPEGPath,
	})
	if err != nil {
		return err
	}
	defer dec.Close()
	info := dec.Info()

	var ctx graphics.Context
	var window *glfwcontext.Context
	if *opts.Headless {
		ctx, err = headless.NewHeadless(*opts.Width, *opts.Height)
		if err != nil {
			return fmt.Errorf("failed to create headless context: %w", err)
		}
	} else {
		if err := glfwcontext.InitGraphics(); err != nil {
			return fmt.Errorf("failed to initialize glfw: %w", err)
		}
		defer glfwcontext.TerminateGraphics()
		window, err = glfwcontext.New(*opts.Width, *opts.Height, "glvideo", true)
		if err != nil {
			return fmt.Errorf("failed to initialize glfw context: %w", err)
		}
		ctx = window
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	gl, err := gogl.New()
	if err != nil {
		return err
	}
	log.Printf("OpenGL version: %s", gl.Version())

	cfg := player.Config{
		Layout:  layout,
		Output:  image.Pt(*opts.Width, *opts.Height),
		Filter:  texture.ParseFilter(*opts.Filter),
		Wrap:    texture.ParseWrap(*opts.Wrap),
		Growth:  *opts.Growth,
		Rect:    *opts.Rect,
		IsGLES:  ctx.IsGLES(),
		Overlay: *opts.Overlay,
	}
	if cfg.Vertex, err = loadStage(*opts.Vertex, translator.Vertex, *opts.Translate, cfg.IsGLES); err != nil {
		return err
	}
	if cfg.Fragment, err = loadStage(*opts.Fragment, translator.Fragment, *opts.Translate, cfg.IsGLES); err != nil {
		return err
	}
	p, err := player.New(gl, cfg)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	defer p.Close()

	var rec *capture.Recorder
	if *opts.Record != "" {
		rec, err = capture.Start(*opts.Record, capture.Options{
			Size:       cfg.Output,
			FPS:        recordFPS(opts, info),
			Codec:      *opts.Codec,
			FFmpegPath: *opts.FFMPEGPath,
		})
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rec.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	var bar *progressbar.ProgressBar
	if *opts.Headless {
		bar = progressbar.Default(frameTotal(opts, info), "rendering")
		defer bar.Close()
	}

	paused := false
	if window != nil {
		window.RegisterKeyCallback(glfw.KeySpace, func() { paused = !paused })
		window.RegisterKeyCallback(glfw.KeyS, func() {
			path := *opts.Screenshot
			if path == "" {
				path = fmt.Sprintf("glvideo-%05d.png", p.Frames())
			}
			if err := saveSnapshot(p, path); err != nil {
				log.Printf("Screenshot failed: %v", err)
			}
		})
	}

	for !ctx.ShouldClose() {
		if *opts.Frames > 0 && p.Frames() >= *opts.Frames {
			break
		}
		if !paused {
			f, err := dec.ReadFrame()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			if info.Duration > 0 {
				p.SetProgress(f.PTS / info.Duration)
			}
			if err := p.Render(f); err != nil {
				return err
			}
			if bar != nil {
				bar.Add(1)
			}
			if rec != nil {
				img, err := p.Snapshot()
				if err != nil {
					return err
				}
				if err := rec.WriteFrame(img); err != nil {
					return err
				}
			}
		}
		if window != nil {
			p.Present(image.Pt(ctx.GetFramebufferSize()))
		}
		ctx.EndFrame()
	}
	log.Printf("Rendered %d frames", p.Frames())

	if *opts.Screenshot != "" && p.Frames() > 0 {
		return saveSnapshot(p, *opts.Screenshot)
	}
	return nil
}

func saveSnapshot(p *player.Player, path string) error {
	img, err := p.Snapshot()
	if err != nil {
		return err
	}
	if err := snapshot.Save(path, img); err != nil {
		return err
	}
	log.Printf("Saved snapshot to %s", path)
	return nil
}

func main() {
	opts, fs, err := options.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if *opts.Help {
		fmt.Println("GL Video Player/Recorder")
		fs.PrintDefaults()
		return
	}
	if err := run(opts); err != nil {
		log.Fatalf("Playback failed: %v", err)
	}
}
