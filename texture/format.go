package texture

import (
	"fmt"

	"github.com/richinsley/glvideo/graphics"
)

// Format describes how client pixel bytes map onto GPU storage: the
// internal storage format, the source pixel layout and the component
// encoding. The zero Format means "no format".
type Format struct {
	Internal graphics.Enum
	Pixel    graphics.Enum
	Type     graphics.Enum
}

// IsNull reports whether f is the zero Format.
func (f Format) IsNull() bool { return f == Format{} }

func (f Format) String() string {
	return fmt.Sprintf("Format{internal: 0x%X, pixel: 0x%X, type: 0x%X}", uint32(f.Internal), uint32(f.Pixel), uint32(f.Type))
}

// PixelFormat names a semantic pixel layout of decoded video data.
type PixelFormat int

const (
	NoPixelFormat PixelFormat = iota
	Luma8
	Luma16
	LumaAlpha8
	LumaAlpha16
	RGBA8
	BGRA8
	RGBA16F
	// YCbCr422Apple is packed UYVY sampled through APPLE_ycbcr_422.
	YCbCr422Apple
	// YCbCr422RevApple is packed YUYV sampled through APPLE_ycbcr_422.
	YCbCr422RevApple
	YCbCrMesa
	YCbCrRevMesa
	// YCbCr422Packed stores packed 4:2:2 data as RGBA texels at half
	// width; the fragment stage unpacks the two luma samples.
	YCbCr422Packed
)

var pixelFormatNames = map[PixelFormat]string{
	NoPixelFormat:    "none",
	Luma8:            "luma8",
	Luma16:           "luma16",
	LumaAlpha8:       "luma-alpha8",
	LumaAlpha16:      "luma-alpha16",
	RGBA8:            "rgba8",
	BGRA8:            "bgra8",
	RGBA16F:          "rgba16f",
	YCbCr422Apple:    "ycbcr422-apple",
	YCbCr422RevApple: "ycbcr422-rev-apple",
	YCbCrMesa:        "ycbcr-mesa",
	YCbCrRevMesa:     "ycbcr-rev-mesa",
	YCbCr422Packed:   "ycbcr422-packed",
}

func (p PixelFormat) String() string {
	if s, ok := pixelFormatNames[p]; ok {
		return s
	}
	return fmt.Sprintf("PixelFormat(%d)", int(p))
}

// formats is built once and never mutated. Luminance storage is expressed
// with core-profile R/RG formats.
var formats = map[PixelFormat]Format{
	Luma8:            {graphics.R8, graphics.RED, graphics.UNSIGNED_BYTE},
	Luma16:           {graphics.R16, graphics.RED, graphics.UNSIGNED_SHORT},
	LumaAlpha8:       {graphics.RG8, graphics.RG, graphics.UNSIGNED_BYTE},
	LumaAlpha16:      {graphics.RG16, graphics.RG, graphics.UNSIGNED_SHORT},
	RGBA8:            {graphics.RGBA8, graphics.RGBA, graphics.UNSIGNED_BYTE},
	BGRA8:            {graphics.RGBA8, graphics.BGRA, graphics.UNSIGNED_INT_8_8_8_8_REV},
	RGBA16F:          {graphics.RGBA16F, graphics.RGBA, graphics.HALF_FLOAT},
	YCbCr422Apple:    {graphics.RGB8, graphics.YCBCR_422_APPLE, graphics.UNSIGNED_SHORT_8_8_APPLE},
	YCbCr422RevApple: {graphics.RGB8, graphics.YCBCR_422_APPLE, graphics.UNSIGNED_SHORT_8_8_REV_APPLE},
	YCbCrMesa:        {graphics.YCBCR_MESA, graphics.YCBCR_MESA, graphics.UNSIGNED_SHORT_8_8_MESA},
	YCbCrRevMesa:     {graphics.YCBCR_MESA, graphics.YCBCR_MESA, graphics.UNSIGNED_SHORT_8_8_REV_MESA},
	YCbCr422Packed:   {graphics.RGBA8, graphics.RGBA, graphics.UNSIGNED_BYTE},
}

// FormatFor returns the descriptor for p, or the zero Format if p has none.
func FormatFor(p PixelFormat) Format {
	return formats[p]
}

// BytesPerPixel returns the client-side size of one pixel of f, or 0 for
// layouts this package cannot size.
func (f Format) BytesPerPixel() int {
	switch f.Type {
	case graphics.UNSIGNED_INT_8_8_8_8, graphics.UNSIGNED_INT_8_8_8_8_REV:
		return 4
	case graphics.UNSIGNED_SHORT_8_8_APPLE, graphics.UNSIGNED_SHORT_8_8_REV_APPLE:
		return 2
	}
	var comps int
	switch f.Pixel {
	case graphics.RED:
		comps = 1
	case graphics.RG:
		comps = 2
	case graphics.RGB:
		comps = 3
	case graphics.RGBA, graphics.BGRA:
		comps = 4
	default:
		return 0
	}
	switch f.Type {
	case graphics.UNSIGNED_BYTE:
		return comps
	case graphics.UNSIGNED_SHORT, graphics.HALF_FLOAT:
		return comps * 2
	case graphics.FLOAT:
		return comps * 4
	}
	return 0
}
