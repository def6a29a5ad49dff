package player

import (
	"image"
	"testing"

	"github.com/richinsley/glvideo/frame"
	"github.com/richinsley/glvideo/graphics"
	"github.com/richinsley/glvideo/graphics/gltest"
	"github.com/richinsley/glvideo/shader"
	"github.com/richinsley/glvideo/texture"
)

func newPlayer(t *testing.T, g *gltest.GL, layout string, cfg Config) *Player {
	t.Helper()
	l, err := frame.LayoutByName(layout)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Layout = l
	if cfg.Output == (image.Point{}) {
		cfg.Output = image.Pt(16, 8)
	}
	p, err := New(g, cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func testFrame(t *testing.T, layout string, size image.Point) *frame.Frame {
	t.Helper()
	l, _ := frame.LayoutByName(layout)
	f, err := frame.Split(l, size, make([]byte, l.FrameBytes(size)))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestRenderPlanar(t *testing.T) {
	g := gltest.New()
	p := newPlayer(t, g, "yuv420p", Config{Overlay: true})
	p.SetProgress(0.5)
	if err := p.Render(testFrame(t, "yuv420p", image.Pt(10, 4))); err != nil {
		t.Fatal(err)
	}
	if g.Count("TexSubImage2D 0,0 10x4") != 1 || g.Count("TexSubImage2D 0,0 5x2") != 2 {
		t.Errorf("plane uploads missing: %v", g.Calls)
	}
	if y := p.Plane(0); y.Width != 12 || y.Height != 12 {
		t.Errorf("luma plane = %dx%d, want 12x12", y.Width, y.Height)
	}
	if len(g.Draws) != 2 {
		t.Fatalf("draws = %d, want video and overlay", len(g.Draws))
	}
	fbo := g.Draws[0].Framebuffer
	if fbo == 0 || g.Draws[1].Framebuffer != fbo {
		t.Error("frame not drawn into the offscreen surface")
	}
	if g.Draws[0].Count != 6 || g.Draws[1].Count != 12 {
		t.Errorf("vertex counts = %d, %d", g.Draws[0].Count, g.Draws[1].Count)
	}
	if len(g.Draws[1].Enabled) != 3 {
		t.Errorf("overlay enabled arrays = %v, want colour too", g.Draws[1].Enabled)
	}
	if g.BoundFBO != 0 {
		t.Error("surface left bound after Render")
	}
	scale, ok := g.Uniform(g.Draws[0].Program, shader.ScaleUniform(0))
	if !ok || scale[0] != 10.0/12 || scale[1] != 4.0/12 {
		t.Errorf("luma scale = %v", scale)
	}
	if p.Frames() != 1 {
		t.Errorf("Frames = %d", p.Frames())
	}
}

func TestPortraitFrameGetsFullHeight(t *testing.T) {
	g := gltest.New()
	p := newPlayer(t, g, "gray", Config{Filter: texture.Nearest, Wrap: texture.Repeat})
	if err := p.Render(testFrame(t, "gray", image.Pt(2, 8))); err != nil {
		t.Fatal(err)
	}
	tex := p.Plane(0)
	if tex.Height < 8 || tex.Width < 2 {
		t.Errorf("plane = %dx%d, too small for 2x8", tex.Width, tex.Height)
	}
	st := g.Textures[tex.ID]
	if st.Params[graphics.TEXTURE_MIN_FILTER] != int32(texture.Nearest) || st.Params[graphics.TEXTURE_WRAP_S] != int32(texture.Repeat) {
		t.Errorf("configured sampling lost: %v", st.Params)
	}
}

func TestGrowthKeepsSampling(t *testing.T) {
	g := gltest.New()
	p := newPlayer(t, g, "rgba", Config{Filter: texture.Nearest, Wrap: texture.MirroredRepeat})
	if err := p.Render(testFrame(t, "rgba", image.Pt(4, 4))); err != nil {
		t.Fatal(err)
	}
	st := g.Textures[p.Plane(0).ID]
	if st.Params[graphics.TEXTURE_MAG_FILTER] != int32(texture.Nearest) || st.Params[graphics.TEXTURE_WRAP_T] != int32(texture.MirroredRepeat) {
		t.Errorf("params after growth = %v", st.Params)
	}
	allocs := st.Allocations
	if err := p.Render(testFrame(t, "rgba", image.Pt(3, 3))); err != nil {
		t.Fatal(err)
	}
	if st.Allocations != allocs {
		t.Error("smaller frame reallocated the plane")
	}
}

func TestOverlayHidden(t *testing.T) {
	g := gltest.New()
	p := newPlayer(t, g, "rgba", Config{Overlay: true})
	if err := p.Render(testFrame(t, "rgba", image.Pt(4, 4))); err != nil {
		t.Fatal(err)
	}
	if len(g.Draws) != 1 {
		t.Errorf("draws = %d, want only the video quad without progress", len(g.Draws))
	}
}

func TestPresentFlipsSurface(t *testing.T) {
	for _, rect := range []bool{false, true} {
		g := gltest.New()
		p := newPlayer(t, g, "rgba", Config{Rect: rect, Output: image.Pt(16, 8)})
		p.Present(image.Pt(32, 32))
		d := g.Draws[len(g.Draws)-1]
		if d.Framebuffer != 0 {
			t.Errorf("rect=%v: blit drawn into framebuffer %d", rect, d.Framebuffer)
		}
		coords := p.blit.Coords()
		wantTop := float32(1)
		if rect {
			wantTop = 8
		}
		if coords[1] != wantTop || coords[9] != 0 {
			t.Errorf("rect=%v: coords = %v, top edge should sample %v", rect, coords[:12], wantTop)
		}
		if vp := g.Viewports[len(g.Viewports)-1]; vp != [4]int{0, 0, 32, 32} {
			t.Errorf("viewport = %v", vp)
		}
	}
}

func TestSnapshotSize(t *testing.T) {
	g := gltest.New()
	p := newPlayer(t, g, "rgba", Config{Output: image.Pt(6, 4)})
	img, err := p.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(6, 4) {
		t.Errorf("snapshot size = %v", img.Bounds().Size())
	}
}

func TestNewErrors(t *testing.T) {
	l, _ := frame.LayoutByName("rgba")
	if _, err := New(gltest.New(), Config{Layout: l, Output: image.Pt(4, 4), Rect: true, IsGLES: true}); err == nil {
		t.Error("rectangle surface accepted on GLES")
	}
	g := gltest.New()
	g.FramebufferStatus = 0x8cdd
	if _, err := New(g, Config{Layout: l, Output: image.Pt(4, 4)}); err == nil {
		t.Error("expected an error for an incomplete surface")
	}
	if len(g.Programs) != 0 {
		t.Errorf("%d programs leaked after a failed New", len(g.Programs))
	}
	g = gltest.New()
	g.LinkError = "boom"
	if _, err := New(g, Config{Layout: l, Output: image.Pt(4, 4)}); err == nil {
		t.Error("expected a link error")
	}
}

func TestRenderRejectsMismatchedFrame(t *testing.T) {
	g := gltest.New()
	p := newPlayer(t, g, "nv12", Config{})
	if err := p.Render(testFrame(t, "yuv420p", image.Pt(4, 4))); err == nil {
		t.Error("expected a plane count error")
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		src, dst image.Point
		want     shader.Rect
	}{
		{image.Pt(16, 9), image.Pt(16, 9), shader.RectOf(0, 0, 16, 9)},
		{image.Pt(4, 4), image.Pt(8, 4), shader.RectOf(2, 0, 6, 4)},
		{image.Pt(8, 2), image.Pt(4, 4), shader.RectOf(0, 1.5, 4, 2.5)},
		{image.Pt(0, 0), image.Pt(4, 4), shader.RectOf(0, 0, 4, 4)},
	}
	for _, tt := range tests {
		if got := fitRect(tt.src, tt.dst); got != tt.want {
			t.Errorf("fitRect(%v, %v) = %v, want %v", tt.src, tt.dst, got, tt.want)
		}
	}
}
