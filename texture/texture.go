// Package texture manages a single OpenGL texture object: its target
// dimensionality, size and Format, and the allocate/upload/grow/read-back
// operations on it.
//
// Fallible GPU operations report failure with a boolean, and callers are
// expected to skip the dependent draw or upload when they see false.
package texture

import (
	"fmt"
	"image"

	"github.com/richinsley/glvideo/graphics"
	"github.com/richinsley/glvideo/pixconv"
)

// DefaultGrowth is the factor Expand applies to an insufficient axis.
const DefaultGrowth = 1.2

// Target is the addressing kind of a texture.
type Target int

const (
	Target1D Target = iota + 1
	Target2D
	Target3D
	// TargetRectangle addresses texels with non-normalized coordinates.
	TargetRectangle
)

// Enum returns the GL binding point for t and whether t is known.
func (t Target) Enum() (graphics.Enum, bool) {
	switch t {
	case Target1D:
		return graphics.TEXTURE_1D, true
	case Target2D:
		return graphics.TEXTURE_2D, true
	case Target3D:
		return graphics.TEXTURE_3D, true
	case TargetRectangle:
		return graphics.TEXTURE_RECTANGLE, true
	}
	return 0, false
}

func (t Target) String() string {
	switch t {
	case Target1D:
		return "1D"
	case Target2D:
		return "2D"
	case Target3D:
		return "3D"
	case TargetRectangle:
		return "rectangle"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// Texture is a texture name plus the metadata needed to (re)allocate and
// upload it. Width, Height and Depth of zero mean "unallocated".
//
// The handle is valid between Generate and Delete. Texture does no
// reference counting; pair Generate with Delete (or Close).
type Texture struct {
	gl graphics.GL

	ID     uint32
	Target Target
	Width  int
	Height int
	Depth  int
	Format Format
}

// New returns texture metadata bound to gl. No GPU name is generated.
func New(gl graphics.GL, target Target, format Format) *Texture {
	return &Texture{gl: gl, Target: target, Format: format}
}

// Generate acquires a GPU texture name. Calling it twice without Delete
// leaks the first name.
func (t *Texture) Generate() {
	t.ID = t.gl.GenTexture()
}

// Delete releases the GPU name. The handle is zeroed so a second Delete
// is a no-op.
func (t *Texture) Delete() {
	if t.ID == 0 {
		return
	}
	t.gl.DeleteTexture(t.ID)
	t.ID = 0
}

// Close deletes the texture; it lets owners release it with defer.
func (t *Texture) Close() error {
	t.Delete()
	return nil
}

func (t *Texture) IsNull() bool { return t.ID == 0 }

// IsEmpty reports whether all three dimensions are zero.
func (t *Texture) IsEmpty() bool { return t.Width == 0 && t.Height == 0 && t.Depth == 0 }

func (t *Texture) Size() image.Point { return image.Pt(t.Width, t.Height) }

// SetSize changes Width and Height without touching GPU storage.
func (t *Texture) SetSize(size image.Point) {
	t.Width, t.Height = size.X, size.Y
}

// CopyAttributesFrom copies target, dimensions and format from other.
// The GPU handle is left alone.
func (t *Texture) CopyAttributesFrom(other *Texture) {
	t.Target = other.Target
	t.Width, t.Height, t.Depth = other.Width, other.Height, other.Depth
	t.Format = other.Format
}

func (t *Texture) Bind() {
	if target, ok := t.Target.Enum(); ok {
		t.gl.BindTexture(target, t.ID)
	}
}

func (t *Texture) Unbind() {
	if target, ok := t.Target.Enum(); ok {
		t.gl.BindTexture(target, 0)
	}
}

// BindUnit binds the texture to texture unit n for sampling.
func (t *Texture) BindUnit(n int) {
	t.gl.ActiveTexture(graphics.TEXTURE0 + graphics.Enum(n))
	t.Bind()
}

// Allocate commits storage with linear filtering and edge clamping.
func (t *Texture) Allocate(data []byte) bool {
	return t.AllocateWith(Linear, ClampToEdge, data)
}

// AllocateWith commits storage for the current size and format and sets
// filter and wrap on every axis the target has. Prior content is
// undefined afterwards. It returns false without touching the GPU when
// the texture is empty or the target is unknown.
func (t *Texture) AllocateWith(filter Filter, wrap Wrap, data []byte) bool {
	if t.IsEmpty() {
		return false
	}
	target, ok := t.Target.Enum()
	if !ok {
		return false
	}
	f := t.Format
	t.Bind()
	t.gl.PixelStorei(graphics.UNPACK_ALIGNMENT, 1)
	switch t.Target {
	case Target3D:
		t.gl.TexImage3D(target, f.Internal, t.Width, t.Height, t.Depth, f.Pixel, f.Type, data)
	case Target2D, TargetRectangle:
		t.gl.TexImage2D(target, f.Internal, t.Width, t.Height, f.Pixel, f.Type, data)
	case Target1D:
		t.gl.TexImage1D(target, f.Internal, t.Width, f.Pixel, f.Type, data)
	}
	t.parameters(target, filter, wrap)
	t.Unbind()
	return true
}

// SetParameters changes filter and wrap without touching storage. It
// returns false for a null handle or an unknown target.
func (t *Texture) SetParameters(filter Filter, wrap Wrap) bool {
	target, ok := t.Target.Enum()
	if !ok || t.IsNull() {
		return false
	}
	t.Bind()
	t.parameters(target, filter, wrap)
	t.Unbind()
	return true
}

func (t *Texture) parameters(target graphics.Enum, filter Filter, wrap Wrap) {
	t.gl.TexParameteri(target, graphics.TEXTURE_MAG_FILTER, int32(filter))
	t.gl.TexParameteri(target, graphics.TEXTURE_MIN_FILTER, int32(filter))
	switch t.Target {
	case Target3D:
		t.gl.TexParameteri(target, graphics.TEXTURE_WRAP_R, int32(wrap))
		fallthrough
	case Target2D, TargetRectangle:
		t.gl.TexParameteri(target, graphics.TEXTURE_WRAP_T, int32(wrap))
		fallthrough
	case Target1D:
		t.gl.TexParameteri(target, graphics.TEXTURE_WRAP_S, int32(wrap))
	}
}

// Expand grows the texture with DefaultGrowth.
func (t *Texture) Expand(size image.Point) bool {
	return t.ExpandBy(size, DefaultGrowth)
}

// ExpandBy makes sure the texture is at least size. When it already is,
// nothing happens and ExpandBy returns true. Otherwise each insufficient
// axis becomes requested*growth and storage is reallocated, discarding
// the previous content.
//
// The height axis is grown from the requested width, not the requested
// height. Callers that need the exact height must not rely on the
// reallocated extent matching size.Y*growth.
func (t *Texture) ExpandBy(size image.Point, growth float64) bool {
	if t.Width >= size.X && t.Height >= size.Y {
		return true
	}
	if t.Width < size.X {
		t.Width = int(float64(size.X) * growth)
	}
	if t.Height < size.Y {
		t.Height = int(float64(size.X) * growth)
	}
	return t.Allocate(nil)
}

// Upload writes data over the whole allocated extent, dispatched by
// target.
func (t *Texture) Upload(data []byte) bool {
	switch t.Target {
	case Target3D:
		return t.UploadRegion3D(0, 0, 0, t.Width, t.Height, t.Depth, data)
	case Target2D, TargetRectangle:
		return t.UploadRegion2D(0, 0, t.Width, t.Height, data)
	case Target1D:
		return t.UploadRegion1D(0, t.Width, data)
	}
	return false
}

func (t *Texture) Upload1D(data []byte) bool { return t.UploadRegion1D(0, t.Width, data) }

func (t *Texture) Upload2D(data []byte) bool { return t.UploadRegion2D(0, 0, t.Width, t.Height, data) }

// UploadRect writes data into r. The region must lie inside the
// allocated extent; storage is never resized here.
func (t *Texture) UploadRect(r image.Rectangle, data []byte) bool {
	return t.UploadRegion2D(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), data)
}

// UploadAt writes a region of the given size at pos.
func (t *Texture) UploadAt(pos, size image.Point, data []byte) bool {
	return t.UploadRegion2D(pos.X, pos.Y, size.X, size.Y, data)
}

// UploadRegion1D, UploadRegion2D and UploadRegion3D write a sub-region at
// an explicit offset into the already allocated storage. They return
// false, without touching the GPU, when the texture is empty or its
// Target has no GL binding point.
func (t *Texture) UploadRegion1D(x, width int, data []byte) bool {
	return t.upload(func(target graphics.Enum) {
		t.gl.TexSubImage1D(target, x, width, t.Format.Pixel, t.Format.Type, data)
	})
}

func (t *Texture) UploadRegion2D(x, y, width, height int, data []byte) bool {
	return t.upload(func(target graphics.Enum) {
		t.gl.TexSubImage2D(target, x, y, width, height, t.Format.Pixel, t.Format.Type, data)
	})
}

func (t *Texture) UploadRegion3D(x, y, z, width, height, depth int, data []byte) bool {
	return t.upload(func(target graphics.Enum) {
		t.gl.TexSubImage3D(target, x, y, z, width, height, depth, t.Format.Pixel, t.Format.Type, data)
	})
}

func (t *Texture) upload(sub func(target graphics.Enum)) bool {
	if t.IsEmpty() {
		return false
	}
	target, ok := t.Target.Enum()
	if !ok {
		return false
	}
	t.Bind()
	t.gl.PixelStorei(graphics.UNPACK_ALIGNMENT, 1)
	sub(target)
	t.Unbind()
	return true
}

// ToImage reads the texture back into a CPU-side bitmap. Rows come back
// in upload order.
func (t *Texture) ToImage() (image.Image, error) {
	if t.IsEmpty() {
		return nil, fmt.Errorf("texture %d is empty", t.ID)
	}
	target, ok := t.Target.Enum()
	if !ok || t.Target == Target3D {
		return nil, fmt.Errorf("cannot read back a %v texture", t.Target)
	}
	bpp := t.Format.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("cannot read back %v", t.Format)
	}
	w, h := t.Width, max(t.Height, 1)
	if t.Target == Target1D {
		h = 1
	}
	pix := make([]byte, w*h*bpp)
	t.Bind()
	t.gl.PixelStorei(graphics.PACK_ALIGNMENT, 1)
	t.gl.GetTexImage(target, t.Format.Pixel, t.Format.Type, pix)
	t.Unbind()
	return pixconv.ToImage(t.Format.Pixel, t.Format.Type, w, h, pix)
}
