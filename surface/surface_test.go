package surface

import (
	"image"
	"testing"

	"github.com/richinsley/glvideo/graphics"
	"github.com/richinsley/glvideo/graphics/gltest"
	"github.com/richinsley/glvideo/texture"
)

func TestCoords(t *testing.T) {
	tests := []struct {
		name   string
		target texture.Target
		want   [4]float32
	}{
		{"2D", texture.Target2D, [4]float32{0, 0, 1, 1}},
		{"rectangle", texture.TargetRectangle, [4]float32{0, 0, 100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(gltest.New(), image.Pt(100, 100), WithTarget(tt.target))
			if !s.Valid() {
				t.Fatal("surface not valid")
			}
			x1, y1, x2, y2 := s.Coords()
			if got := [4]float32{x1, y1, x2, y2}; got != tt.want {
				t.Errorf("Coords = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrappedTexture(t *testing.T) {
	g := gltest.New()
	s := New(g, image.Pt(64, 32), WithInternalFormat(graphics.RGBA16F))
	tex := s.Texture()
	if tex.Target != texture.Target2D || tex.Size() != image.Pt(64, 32) {
		t.Errorf("texture = %+v", tex)
	}
	want := texture.Format{Internal: graphics.RGBA16F, Pixel: graphics.RGBA, Type: graphics.UNSIGNED_BYTE}
	if tex.Format != want {
		t.Errorf("format = %v, want %v", tex.Format, want)
	}
	st := g.Textures[tex.ID]
	if st.Params[graphics.TEXTURE_MAG_FILTER] != int32(graphics.LINEAR) || st.Params[graphics.TEXTURE_MIN_FILTER] != int32(graphics.LINEAR) {
		t.Errorf("filters = %v, want linear", st.Params)
	}
	attached := false
	for _, colour := range g.Framebuffers {
		attached = attached || colour == tex.ID
	}
	if !attached {
		t.Error("texture not attached to the framebuffer")
	}
	if g.BoundFBO != 0 {
		t.Error("framebuffer left bound after construction")
	}
}

func TestInvalidConstruction(t *testing.T) {
	t.Run("incomplete framebuffer", func(t *testing.T) {
		g := gltest.New()
		g.FramebufferStatus = 0x8cd6
		s := New(g, image.Pt(8, 8))
		if s.Valid() {
			t.Fatal("surface valid with an incomplete framebuffer")
		}
		if _, err := s.ToImage(); err == nil {
			t.Error("ToImage on an invalid surface should fail")
		}
		s.Close()
		if len(g.Framebuffers) != 0 || len(g.Textures) != 0 {
			t.Error("Close did not release GPU objects")
		}
	})
	t.Run("zero size", func(t *testing.T) {
		g := gltest.New()
		s := New(g, image.Pt(0, 0))
		if s.Valid() {
			t.Fatal("zero-sized surface is valid")
		}
		if len(g.Calls) != 0 {
			t.Errorf("zero-sized surface touched the GPU: %v", g.Calls)
		}
	})
	t.Run("3D target", func(t *testing.T) {
		if New(gltest.New(), image.Pt(8, 8), WithTarget(texture.Target3D)).Valid() {
			t.Error("3D surface reported valid")
		}
	})
}

func TestToImageFlipsRows(t *testing.T) {
	g := gltest.New()
	s := New(g, image.Pt(2, 2))
	// Row 0 in GL is the bottom of the picture.
	st := g.Textures[s.Texture().ID]
	copy(st.Data, []byte{
		1, 1, 1, 255, 2, 2, 2, 255,
		3, 3, 3, 255, 4, 4, 4, 255,
	})
	img, err := s.ToImage()
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(0, 0).R; got != 3 {
		t.Errorf("top-left = %d, want 3", got)
	}
	if got := img.NRGBAAt(1, 1).R; got != 2 {
		t.Errorf("bottom-right = %d, want 2", got)
	}
}

func TestBindSetsViewport(t *testing.T) {
	g := gltest.New()
	s := New(g, image.Pt(320, 240))
	s.Bind()
	if g.BoundFBO == 0 {
		t.Error("Bind did not bind the framebuffer")
	}
	if vp := g.Viewports[len(g.Viewports)-1]; vp != [4]int{0, 0, 320, 240} {
		t.Errorf("viewport = %v", vp)
	}
	s.Release()
	if g.BoundFBO != 0 {
		t.Error("Release left the framebuffer bound")
	}
}
