package texture

import "github.com/richinsley/glvideo/graphics"

// Filter is a magnification/minification filter.
type Filter int32

const (
	Nearest Filter = Filter(graphics.NEAREST)
	Linear  Filter = Filter(graphics.LINEAR)
)

// Wrap is an edge addressing mode applied to every axis of a texture.
type Wrap int32

const (
	ClampToEdge    Wrap = Wrap(graphics.CLAMP_TO_EDGE)
	Repeat         Wrap = Wrap(graphics.REPEAT)
	MirroredRepeat Wrap = Wrap(graphics.MIRRORED_REPEAT)
)

// ParseWrap converts a wrap name to a Wrap. Unknown names clamp, which is
// what video planes want.
func ParseWrap(wrap string) Wrap {
	switch wrap {
	case "repeat":
		return Repeat
	case "mirror":
		return MirroredRepeat
	default:
		return ClampToEdge
	}
}

// ParseFilter converts a filter name to a Filter.
func ParseFilter(filter string) Filter {
	switch filter {
	case "nearest":
		return Nearest
	default:
		return Linear
	}
}
