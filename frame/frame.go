// Package frame describes raw video frames as a set of planes that map
// onto texture pixel formats.
package frame

import (
	"fmt"
	"image"
	"strings"

	"github.com/richinsley/glvideo/shader"
	"github.com/richinsley/glvideo/texture"
)

// Plane describes one plane of a layout. Width and height of the plane
// are the frame size divided by the subsampling factors, rounded up.
type Plane struct {
	Format texture.PixelFormat
	SubX   int
	SubY   int
	// Pack is the number of frame pixels stored in one texel.
	Pack int
}

// Size returns the texel size of the plane for a frame of the given size.
func (p Plane) Size(frame image.Point) image.Point {
	w := ceilDiv(frame.X, p.SubX*p.Pack)
	h := ceilDiv(frame.Y, p.SubY)
	return image.Pt(w, h)
}

// Bytes returns the byte length of the plane for a frame of the given size.
func (p Plane) Bytes(frame image.Point) int {
	s := p.Size(frame)
	return s.X * s.Y * texture.FormatFor(p.Format).BytesPerPixel()
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// Layout is a raw pixel layout as produced by the decoder.
type Layout struct {
	// Name is the FFmpeg pix_fmt name.
	Name     string
	Planes   []Plane
	Fragment shader.Fragment
}

var layouts = map[string]Layout{
	"rgba": {Name: "rgba", Fragment: shader.FragmentRGBA, Planes: []Plane{
		{Format: texture.RGBA8, SubX: 1, SubY: 1, Pack: 1},
	}},
	"bgra": {Name: "bgra", Fragment: shader.FragmentRGBA, Planes: []Plane{
		{Format: texture.BGRA8, SubX: 1, SubY: 1, Pack: 1},
	}},
	"gray": {Name: "gray", Fragment: shader.FragmentGray, Planes: []Plane{
		{Format: texture.Luma8, SubX: 1, SubY: 1, Pack: 1},
	}},
	"gray16le": {Name: "gray16le", Fragment: shader.FragmentGray, Planes: []Plane{
		{Format: texture.Luma16, SubX: 1, SubY: 1, Pack: 1},
	}},
	"yuv420p": {Name: "yuv420p", Fragment: shader.FragmentYUVPlanar, Planes: []Plane{
		{Format: texture.Luma8, SubX: 1, SubY: 1, Pack: 1},
		{Format: texture.Luma8, SubX: 2, SubY: 2, Pack: 1},
		{Format: texture.Luma8, SubX: 2, SubY: 2, Pack: 1},
	}},
	"nv12": {Name: "nv12", Fragment: shader.FragmentNV12, Planes: []Plane{
		{Format: texture.Luma8, SubX: 1, SubY: 1, Pack: 1},
		{Format: texture.LumaAlpha8, SubX: 2, SubY: 2, Pack: 1},
	}},
	"uyvy422": {Name: "uyvy422", Fragment: shader.FragmentPacked422, Planes: []Plane{
		{Format: texture.YCbCr422Packed, SubX: 1, SubY: 1, Pack: 2},
	}},
}

// LayoutByName looks up a layout by its FFmpeg pix_fmt name.
func LayoutByName(name string) (Layout, error) {
	l, ok := layouts[strings.ToLower(name)]
	if !ok {
		return Layout{}, fmt.Errorf("unsupported pixel layout %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return l, nil
}

// Names lists the supported layouts in a stable order.
func Names() []string {
	return []string{"rgba", "bgra", "gray", "gray16le", "yuv420p", "nv12", "uyvy422"}
}

// FrameBytes returns the byte length of one frame of the given size.
func (l Layout) FrameBytes(size image.Point) int {
	n := 0
	for _, p := range l.Planes {
		n += p.Bytes(size)
	}
	return n
}

// Frame is one decoded picture with its planes split out.
type Frame struct {
	Layout Layout
	Width  int
	Height int
	Planes [][]byte
	// PTS is the presentation time in seconds.
	PTS float64
}

func (f *Frame) Size() image.Point { return image.Pt(f.Width, f.Height) }

// Split wraps buf, one tightly packed frame, as a Frame. The planes alias
// buf.
func Split(l Layout, size image.Point, buf []byte) (*Frame, error) {
	if want := l.FrameBytes(size); len(buf) < want {
		return nil, fmt.Errorf("short %s frame: have %d bytes, need %d", l.Name, len(buf), want)
	}
	f := &Frame{Layout: l, Width: size.X, Height: size.Y, Planes: make([][]byte, len(l.Planes))}
	off := 0
	for i, p := range l.Planes {
		n := p.Bytes(size)
		f.Planes[i] = buf[off : off+n : off+n]
		off += n
	}
	return f, nil
}
