package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(2, 1, color.NRGBA{0, 0, 255, 255})
	return img
}

func TestEncodeLossless(t *testing.T) {
	decoders := map[string]func(*bytes.Buffer) (image.Image, error){
		".bmp":  func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
		".TIFF": func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) },
	}
	for ext, decode := range decoders {
		var buf bytes.Buffer
		if err := Encode(&buf, testImage(), ext); err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		img, err := decode(&buf)
		if err != nil {
			t.Fatalf("%s: decode: %v", ext, err)
		}
		if r, _, _, _ := img.At(0, 0).RGBA(); r != 0xffff {
			t.Errorf("%s: top-left red = %#x", ext, r)
		}
		if _, _, b, _ := img.At(2, 1).RGBA(); b != 0xffff {
			t.Errorf("%s: bottom-right blue = %#x", ext, b)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")
	if err := Save(path, testImage()); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("png not written: %v", err)
	}
	bad := filepath.Join(dir, "frame.gif")
	if err := Save(bad, testImage()); err == nil {
		t.Error("expected an error for .gif")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("unsupported format still created a file")
	}
}
