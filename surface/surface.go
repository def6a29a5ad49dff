// Package surface provides an offscreen render target backed by a single
// colour texture.
package surface

import (
	"fmt"
	"image"
	"log"

	"github.com/richinsley/glvideo/graphics"
	"github.com/richinsley/glvideo/pixconv"
	"github.com/richinsley/glvideo/texture"
)

// Surface is a framebuffer object whose colour attachment is a
// texture.Texture. Check Valid after New; an invalid Surface is inert and
// only Close may be called on it.
type Surface struct {
	gl      graphics.GL
	fbo     uint32
	texture texture.Texture
	valid   bool
}

type config struct {
	target   texture.Target
	internal graphics.Enum
}

// Option configures New.
type Option func(*config)

// WithTarget selects the colour attachment addressing, texture.Target2D
// (the default) or texture.TargetRectangle.
func WithTarget(target texture.Target) Option {
	return func(c *config) { c.target = target }
}

// WithInternalFormat sets the colour storage format. The default is RGBA8.
func WithInternalFormat(internal graphics.Enum) Option {
	return func(c *config) { c.internal = internal }
}

// New creates a size.X×size.Y surface. The colour texture always uses an
// RGBA/unsigned-byte client layout and linear filtering.
func New(gl graphics.GL, size image.Point, opts ...Option) *Surface {
	cfg := config{target: texture.Target2D, internal: graphics.RGBA8}
	for _, o := range opts {
		o(&cfg)
	}
	format := texture.Format{Internal: cfg.internal, Pixel: graphics.RGBA, Type: graphics.UNSIGNED_BYTE}
	s := &Surface{gl: gl, texture: *texture.New(gl, cfg.target, format)}
	s.texture.SetSize(size)
	if size.X <= 0 || size.Y <= 0 {
		log.Printf("Offscreen surface: invalid size %v", size)
		return s
	}
	target, ok := cfg.target.Enum()
	if !ok || (cfg.target != texture.Target2D && cfg.target != texture.TargetRectangle) {
		log.Printf("Offscreen surface: unsupported target %v", cfg.target)
		return s
	}

	s.fbo = gl.GenFramebuffer()
	s.texture.Generate()
	if !s.texture.AllocateWith(texture.Linear, texture.ClampToEdge, nil) {
		return s
	}
	gl.BindFramebuffer(graphics.FRAMEBUFFER, s.fbo)
	gl.FramebufferTexture2D(graphics.FRAMEBUFFER, graphics.COLOR_ATTACHMENT0, target, s.texture.ID)
	if status := gl.CheckFramebufferStatus(graphics.FRAMEBUFFER); status != graphics.FRAMEBUFFER_COMPLETE {
		log.Printf("Offscreen surface: framebuffer is not complete (status 0x%X)", uint32(status))
	} else {
		s.valid = true
	}
	gl.BindFramebuffer(graphics.FRAMEBUFFER, 0)
	return s
}

func (s *Surface) Valid() bool { return s.valid }

// Texture returns the colour attachment. It stays owned by the surface.
func (s *Surface) Texture() *texture.Texture { return &s.texture }

func (s *Surface) Size() image.Point { return s.texture.Size() }

// Coords returns the texture-coordinate extents that cover the whole
// surface: pixel units for rectangle addressing, normalized otherwise.
func (s *Surface) Coords() (x1, y1, x2, y2 float32) {
	if s.texture.Target == texture.TargetRectangle {
		return 0, 0, float32(s.texture.Width), float32(s.texture.Height)
	}
	return 0, 0, 1, 1
}

// Bind directs rendering into the surface and sets the viewport to it.
func (s *Surface) Bind() {
	s.gl.BindFramebuffer(graphics.FRAMEBUFFER, s.fbo)
	s.gl.Viewport(0, 0, s.texture.Width, s.texture.Height)
}

// Release restores the default framebuffer.
func (s *Surface) Release() {
	s.gl.BindFramebuffer(graphics.FRAMEBUFFER, 0)
}

// ToImage reads the rendered content back, top row first.
func (s *Surface) ToImage() (*image.NRGBA, error) {
	if !s.valid {
		return nil, fmt.Errorf("offscreen surface is not valid")
	}
	w, h := s.texture.Width, s.texture.Height
	pix := make([]byte, w*h*4)
	s.gl.BindFramebuffer(graphics.READ_FRAMEBUFFER, s.fbo)
	s.gl.PixelStorei(graphics.PACK_ALIGNMENT, 1)
	s.gl.ReadPixels(0, 0, w, h, graphics.RGBA, graphics.UNSIGNED_BYTE, pix)
	s.gl.BindFramebuffer(graphics.READ_FRAMEBUFFER, 0)
	img, err := pixconv.ToImage(graphics.RGBA, graphics.UNSIGNED_BYTE, w, h, pix)
	if err != nil {
		return nil, err
	}
	return pixconv.FlipVertical(img.(*image.NRGBA)), nil
}

// Close releases the framebuffer and its texture.
func (s *Surface) Close() error {
	if s.fbo != 0 {
		s.gl.DeleteFramebuffer(s.fbo)
		s.fbo = 0
	}
	s.texture.Delete()
	s.valid = false
	return nil
}
