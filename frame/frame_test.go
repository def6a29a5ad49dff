package frame

import (
	"image"
	"testing"

	"github.com/richinsley/glvideo/texture"
)

func TestFrameBytes(t *testing.T) {
	tests := []struct {
		layout string
		size   image.Point
		want   int
	}{
		{"rgba", image.Pt(4, 4), 64},
		{"gray", image.Pt(3, 3), 9},
		{"gray16le", image.Pt(3, 3), 18},
		{"yuv420p", image.Pt(4, 4), 24},
		{"yuv420p", image.Pt(5, 3), 15 + 6 + 6},
		{"nv12", image.Pt(4, 4), 16 + 8},
		{"uyvy422", image.Pt(4, 2), 16},
	}
	for _, tt := range tests {
		l, err := LayoutByName(tt.layout)
		if err != nil {
			t.Fatal(err)
		}
		if got := l.FrameBytes(tt.size); got != tt.want {
			t.Errorf("%s %v: FrameBytes = %d, want %d", tt.layout, tt.size, got, tt.want)
		}
	}
}

func TestPlaneSize(t *testing.T) {
	l, _ := LayoutByName("uyvy422")
	if got := l.Planes[0].Size(image.Pt(7, 3)); got != image.Pt(4, 3) {
		t.Errorf("packed plane size = %v, want 4x3", got)
	}
	l, _ = LayoutByName("NV12")
	if l.Planes[1].Format != texture.LumaAlpha8 {
		t.Errorf("nv12 chroma format = %v", l.Planes[1].Format)
	}
}

func TestUnknownLayout(t *testing.T) {
	if _, err := LayoutByName("p010le"); err == nil {
		t.Error("expected an error for an unsupported layout")
	}
	for _, n := range Names() {
		if _, err := LayoutByName(n); err != nil {
			t.Errorf("listed layout %q not found", n)
		}
	}
}

func TestSplit(t *testing.T) {
	l, _ := LayoutByName("yuv420p")
	buf := make([]byte, l.FrameBytes(image.Pt(4, 2)))
	for i := range buf {
		buf[i] = byte(i)
	}
	f, err := Split(l, image.Pt(4, 2), buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Planes) != 3 || len(f.Planes[0]) != 8 || len(f.Planes[1]) != 2 || len(f.Planes[2]) != 2 {
		t.Fatalf("plane lengths wrong: %d planes", len(f.Planes))
	}
	if f.Planes[1][0] != 8 || f.Planes[2][1] != 11 {
		t.Error("planes not split at the right offsets")
	}
	if _, err := Split(l, image.Pt(4, 2), buf[:5]); err == nil {
		t.Error("expected an error for a short buffer")
	}
}
