package pixconv

import (
	"image"
	"testing"

	"github.com/richinsley/glvideo/graphics"
)

func TestToImage(t *testing.T) {
	t.Run("bgra swaps", func(t *testing.T) {
		img, err := ToImage(graphics.BGRA, graphics.UNSIGNED_BYTE, 1, 1, []byte{10, 20, 30, 40})
		if err != nil {
			t.Fatal(err)
		}
		c := img.(*image.NRGBA).NRGBAAt(0, 0)
		if c.R != 30 || c.G != 20 || c.B != 10 || c.A != 40 {
			t.Errorf("pixel = %v", c)
		}
	})
	t.Run("gray16 byte order", func(t *testing.T) {
		img, err := ToImage(graphics.RED, graphics.UNSIGNED_SHORT, 1, 1, []byte{0x34, 0x12})
		if err != nil {
			t.Fatal(err)
		}
		if v := img.(*image.Gray16).Gray16At(0, 0).Y; v != 0x1234 {
			t.Errorf("value = %#x, want 0x1234", v)
		}
	})
	t.Run("luma alpha", func(t *testing.T) {
		img, err := ToImage(graphics.RG, graphics.UNSIGNED_BYTE, 1, 1, []byte{7, 9})
		if err != nil {
			t.Fatal(err)
		}
		c := img.(*image.NRGBA).NRGBAAt(0, 0)
		if c.R != 7 || c.B != 7 || c.A != 9 {
			t.Errorf("pixel = %v", c)
		}
	})
	t.Run("errors", func(t *testing.T) {
		if _, err := ToImage(graphics.RGBA, graphics.UNSIGNED_BYTE, 2, 2, make([]byte, 15)); err == nil {
			t.Error("expected a short-buffer error")
		}
		if _, err := ToImage(graphics.RGBA, graphics.FLOAT, 1, 1, make([]byte, 16)); err == nil {
			t.Error("expected an unsupported-layout error")
		}
	})
}

func TestFlipVertical(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 3))
	src.Pix[0], src.Pix[4], src.Pix[8] = 1, 2, 3
	got := FlipVertical(src)
	if got.Pix[0] != 3 || got.Pix[4] != 2 || got.Pix[8] != 1 {
		t.Errorf("rows = %d %d %d, want 3 2 1", got.Pix[0], got.Pix[4], got.Pix[8])
	}
	if src.Pix[0] != 1 {
		t.Error("source modified")
	}
}
