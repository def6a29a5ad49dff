// Package pixconv converts raw pixel bytes read back from the GPU into
// standard library images.
package pixconv

import (
	"fmt"
	"image"

	"github.com/richinsley/glvideo/graphics"
)

// ToImage wraps pix, a tightly packed width×height buffer laid out as
// format/typ, in an image.Image. Rows are kept in buffer order.
func ToImage(format, typ graphics.Enum, width, height int, pix []byte) (image.Image, error) {
	rect := image.Rect(0, 0, width, height)
	n := width * height
	switch {
	case format == graphics.RGBA && typ == graphics.UNSIGNED_BYTE:
		if err := need(pix, n*4); err != nil {
			return nil, err
		}
		img := image.NewNRGBA(rect)
		copy(img.Pix, pix)
		return img, nil
	case format == graphics.BGRA && (typ == graphics.UNSIGNED_BYTE || typ == graphics.UNSIGNED_INT_8_8_8_8_REV):
		if err := need(pix, n*4); err != nil {
			return nil, err
		}
		img := image.NewNRGBA(rect)
		for i := 0; i < n; i++ {
			s, d := pix[i*4:i*4+4], img.Pix[i*4:i*4+4]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
		}
		return img, nil
	case format == graphics.RED && typ == graphics.UNSIGNED_BYTE:
		if err := need(pix, n); err != nil {
			return nil, err
		}
		img := image.NewGray(rect)
		copy(img.Pix, pix)
		return img, nil
	case format == graphics.RED && typ == graphics.UNSIGNED_SHORT:
		if err := need(pix, n*2); err != nil {
			return nil, err
		}
		// GL hands back host (little-endian) order; Gray16 is big-endian.
		img := image.NewGray16(rect)
		for i := 0; i < n; i++ {
			img.Pix[i*2], img.Pix[i*2+1] = pix[i*2+1], pix[i*2]
		}
		return img, nil
	case format == graphics.RG && typ == graphics.UNSIGNED_BYTE:
		if err := need(pix, n*2); err != nil {
			return nil, err
		}
		img := image.NewNRGBA(rect)
		for i := 0; i < n; i++ {
			l, a := pix[i*2], pix[i*2+1]
			d := img.Pix[i*4 : i*4+4]
			d[0], d[1], d[2], d[3] = l, l, l, a
		}
		return img, nil
	}
	return nil, fmt.Errorf("unsupported read-back layout: pixel 0x%X, type 0x%X", uint32(format), uint32(typ))
}

func need(pix []byte, n int) error {
	if len(pix) < n {
		return fmt.Errorf("pixel buffer too short: have %d bytes, need %d", len(pix), n)
	}
	return nil
}

// FlipVertical returns a copy of src with its rows reversed. OpenGL
// read-back starts at the bottom row.
func FlipVertical(src *image.NRGBA) *image.NRGBA {
	bounds := src.Bounds()
	flipped := image.NewNRGBA(bounds)
	height := bounds.Dy()
	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}
