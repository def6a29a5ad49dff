// Package player draws decoded video frames into an offscreen surface and
// presents that surface on screen.
package player

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glvideo/frame"
	"github.com/richinsley/glvideo/graphics"
	"github.com/richinsley/glvideo/shader"
	"github.com/richinsley/glvideo/surface"
	"github.com/richinsley/glvideo/texture"
)

// Config describes how frames are uploaded and drawn.
type Config struct {
	Layout frame.Layout
	// Output is the size of the offscreen surface.
	Output image.Point
	Filter texture.Filter
	Wrap   texture.Wrap
	// Growth is the factor plane textures grow by when a frame no longer
	// fits. Values below 1 use texture.DefaultGrowth.
	Growth float64
	// Rect selects rectangle addressing for the offscreen surface.
	Rect    bool
	IsGLES  bool
	Overlay bool
	// Vertex and Fragment replace the stock video stages when set.
	Vertex   *shader.Source
	Fragment *shader.Source
}

var (
	overlayBackground = shader.PackColor(32, 32, 32, 255)
	overlayFill       = shader.PackColor(230, 60, 40, 255)
)

// overlayHeight is the progress bar height in output pixels.
const overlayHeight = 6

// Player owns every GPU object needed to show one video stream.
type Player struct {
	gl  graphics.GL
	cfg Config

	planes  []*texture.Texture
	video   *shader.Program
	overlay *shader.Program
	blit    *shader.Program
	surface *surface.Surface

	progress float64
	frames   int
}

// New builds the programs, plane textures and offscreen surface. gl must
// belong to the current context.
func New(gl graphics.GL, cfg Config) (*Player, error) {
	if cfg.Growth < 1 {
		cfg.Growth = texture.DefaultGrowth
	}
	if cfg.Rect && cfg.IsGLES {
		return nil, errors.New("rectangle surfaces need a desktop GL context")
	}
	if len(cfg.Layout.Planes) == 0 {
		return nil, errors.New("frame layout has no planes")
	}
	p := &Player{gl: gl, cfg: cfg, progress: -1}

	vertex := shader.VertexSource(cfg.IsGLES, false)
	if cfg.Vertex != nil {
		vertex = *cfg.Vertex
	}
	fragment := shader.FragmentSource(cfg.Layout.Fragment, cfg.IsGLES)
	if cfg.Fragment != nil {
		fragment = *cfg.Fragment
	}
	var err error
	if p.video, err = newProgram(gl, vertex, fragment, 1); err != nil {
		p.Close()
		return nil, fmt.Errorf("video program: %w", err)
	}
	if p.overlay, err = newProgram(gl, shader.VertexSource(cfg.IsGLES, true),
		shader.FragmentSource(shader.FragmentFlatColor, cfg.IsGLES), 2); err != nil {
		p.Close()
		return nil, fmt.Errorf("overlay program: %w", err)
	}
	blitKind := shader.FragmentRGBA
	target := texture.Target2D
	if cfg.Rect {
		blitKind, target = shader.FragmentRectangle, texture.TargetRectangle
	}
	if p.blit, err = newProgram(gl, shader.VertexSource(cfg.IsGLES, false),
		shader.FragmentSource(blitKind, cfg.IsGLES), 1); err != nil {
		p.Close()
		return nil, fmt.Errorf("blit program: %w", err)
	}

	p.surface = surface.New(gl, cfg.Output, surface.WithTarget(target))
	if !p.surface.Valid() {
		p.Close()
		return nil, fmt.Errorf("failed to create %v offscreen surface of %v", target, cfg.Output)
	}

	for _, plane := range cfg.Layout.Planes {
		tex := texture.New(gl, texture.Target2D, texture.FormatFor(plane.Format))
		tex.Generate()
		p.planes = append(p.planes, tex)
	}
	log.Printf("Player ready: %s in %d plane(s), output %dx%d", cfg.Layout.Name, len(p.planes), cfg.Output.X, cfg.Output.Y)
	return p, nil
}

func newProgram(gl graphics.GL, vertex, fragment shader.Source, quads int) (*shader.Program, error) {
	prog := shader.NewProgram(gl)
	if err := prog.SetVertexShader(vertex); err != nil {
		prog.Close()
		return nil, err
	}
	if err := prog.SetFragmentShader(fragment); err != nil {
		prog.Close()
		return nil, err
	}
	if err := prog.Link(); err != nil {
		prog.Close()
		return nil, err
	}
	prog.SetTextureCount(quads)
	return prog, nil
}

// Surface returns the offscreen render target.
func (p *Player) Surface() *surface.Surface { return p.surface }

// Plane returns the texture backing plane i.
func (p *Player) Plane(i int) *texture.Texture { return p.planes[i] }

// Frames returns the number of frames rendered so far.
func (p *Player) Frames() int { return p.frames }

// SetProgress sets the overlay fill in [0, 1]. A negative value hides
// the bar.
func (p *Player) SetProgress(fraction float64) {
	p.progress = min(fraction, 1)
}

// ensurePlane makes the texture for plane i large enough for size and
// reapplies the configured sampling when storage was reallocated.
func (p *Player) ensurePlane(i int, size image.Point) error {
	tex := p.planes[i]
	before := tex.Size()
	if !tex.ExpandBy(size, p.cfg.Growth) {
		return fmt.Errorf("failed to grow plane %d to %v", i, size)
	}
	if tex.Width < size.X || tex.Height < size.Y {
		// Growth derives the new height from the width, which falls short
		// for frames taller than they are wide.
		tex.SetSize(image.Pt(max(tex.Width, size.X), max(tex.Height, size.Y)))
		if !tex.AllocateWith(p.cfg.Filter, p.cfg.Wrap, nil) {
			return fmt.Errorf("failed to allocate plane %d at %v", i, tex.Size())
		}
		return nil
	}
	if tex.Size() != before {
		tex.SetParameters(p.cfg.Filter, p.cfg.Wrap)
	}
	return nil
}

// colorMatrix picks the YCbCr conversion by picture height.
func colorMatrix(size image.Point) mgl32.Mat4 {
	if size.Y >= 720 {
		return shader.BT709
	}
	return shader.BT601
}

// fitRect centres a src-sized picture inside dst keeping its aspect ratio.
func fitRect(src, dst image.Point) shader.Rect {
	if src.X <= 0 || src.Y <= 0 {
		return shader.RectOf(0, 0, float32(dst.X), float32(dst.Y))
	}
	scale := min(float32(dst.X)/float32(src.X), float32(dst.Y)/float32(src.Y))
	w, h := float32(src.X)*scale, float32(src.Y)*scale
	x, y := (float32(dst.X)-w)/2, (float32(dst.Y)-h)/2
	return shader.RectOf(x, y, x+w, y+h)
}

// Render uploads f and draws it, plus the overlay, into the offscreen
// surface.
func (p *Player) Render(f *frame.Frame) error {
	if len(f.Planes) != len(p.planes) {
		return fmt.Errorf("frame has %d planes, player expects %d", len(f.Planes), len(p.planes))
	}
	size := f.Size()
	scales := make([]mgl32.Vec2, len(p.planes))
	for i, plane := range p.cfg.Layout.Planes {
		need := plane.Size(size)
		if err := p.ensurePlane(i, need); err != nil {
			return err
		}
		tex := p.planes[i]
		if !tex.UploadRegion2D(0, 0, need.X, need.Y, f.Planes[i]) {
			return fmt.Errorf("failed to upload plane %d", i)
		}
		scales[i] = mgl32.Vec2{float32(need.X) / float32(tex.Width), float32(need.Y) / float32(tex.Height)}
	}

	out := p.cfg.Output
	projection := mgl32.Ortho2D(0, float32(out.X), float32(out.Y), 0)

	p.surface.Bind()
	p.gl.ClearColor(0, 0, 0, 1)
	p.gl.Clear(graphics.COLOR_BUFFER_BIT)
	defer p.surface.Release()

	p.video.UploadPositionRect(0, fitRect(size, out))
	p.video.UploadCoordRect(0, shader.RectOf(0, 0, 1, 1))
	err := p.video.Do(func() error {
		for i, tex := range p.planes {
			tex.BindUnit(i)
			p.video.SetInt(shader.SamplerUniform(i), int32(i))
			p.video.SetVec2(shader.ScaleUniform(i), scales[i])
		}
		p.video.SetMat4(shader.ProjectionUniform, projection)
		p.video.SetMat4(shader.ColorMatrixUniform, colorMatrix(size))
		p.video.SetVec2(shader.FrameSizeUniform, mgl32.Vec2{float32(size.X), float32(size.Y)})
		p.video.Draw(1)
		for i := len(p.planes) - 1; i >= 0; i-- {
			p.gl.ActiveTexture(graphics.TEXTURE0 + graphics.Enum(i))
			p.planes[i].Unbind()
		}
		return nil
	})
	if err != nil {
		return err
	}

	if p.cfg.Overlay && p.progress >= 0 {
		p.drawOverlay(projection)
	}
	p.frames++
	return nil
}

func (p *Player) drawOverlay(projection mgl32.Mat4) {
	out := p.cfg.Output
	top := float32(out.Y - overlayHeight)
	fill := float32(p.progress) * float32(out.X)
	p.overlay.UploadPositionRect(0, shader.RectOf(0, top, float32(out.X), float32(out.Y)))
	p.overlay.UploadPositionRect(1, shader.RectOf(0, top, fill, float32(out.Y)))
	p.overlay.UploadColorAsTriangles(0, overlayBackground)
	p.overlay.UploadColorAsTriangles(1, overlayFill)
	p.overlay.Do(func() error {
		p.overlay.SetMat4(shader.ProjectionUniform, projection)
		p.overlay.Draw(2)
		return nil
	})
}

// Present draws the offscreen surface letterboxed into the default
// framebuffer of the given size.
func (p *Player) Present(fb image.Point) {
	p.gl.BindFramebuffer(graphics.FRAMEBUFFER, 0)
	p.gl.Viewport(0, 0, fb.X, fb.Y)
	p.gl.ClearColor(0, 0, 0, 1)
	p.gl.Clear(graphics.COLOR_BUFFER_BIT)

	// Surface rows start at the bottom, so the quad's top edge samples y2.
	x1, y1, x2, y2 := p.surface.Coords()
	p.blit.UploadPositionRect(0, fitRect(p.cfg.Output, fb))
	p.blit.UploadCoordAsTriangles(0, mgl32.Vec2{x1, y2}, mgl32.Vec2{x2, y1})
	p.blit.Do(func() error {
		tex := p.surface.Texture()
		tex.BindUnit(0)
		p.blit.SetInt(shader.SamplerUniform(0), 0)
		p.blit.SetVec2(shader.ScaleUniform(0), mgl32.Vec2{1, 1})
		p.blit.SetMat4(shader.ProjectionUniform, mgl32.Ortho2D(0, float32(fb.X), float32(fb.Y), 0))
		p.blit.Draw(1)
		tex.Unbind()
		return nil
	})
}

// Snapshot reads the offscreen surface back, top row first.
func (p *Player) Snapshot() (*image.NRGBA, error) {
	return p.surface.ToImage()
}

// Close releases every GPU object the player created.
func (p *Player) Close() error {
	for _, tex := range p.planes {
		tex.Close()
	}
	p.planes = nil
	for _, prog := range []*shader.Program{p.video, p.overlay, p.blit} {
		if prog != nil {
			prog.Close()
		}
	}
	p.video, p.overlay, p.blit = nil, nil, nil
	if p.surface != nil {
		p.surface.Close()
		p.surface = nil
	}
	return nil
}
