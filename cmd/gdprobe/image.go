package main

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/bmp"

	"github.com/NuttawutSanuk/gd"
	"github.com/NuttawutSanuk/gd/internal/pixel"
)

// testPattern returns width*height elements of f. 8-bit RGBA formats get a
// gradient that is recognisable in a dump; other formats get a byte ramp.
func testPattern(width, height int, f gd.TextureFormat) []byte {
	p := make([]byte, gd.TextureSize(width, height, f))
	if !isRGBA8(f) {
		for i := range p {
			p[i] = byte(i*13 + 7)
		}
		return p
	}
	for y := range height {
		for x := range width {
			i := (y*width + x) * 4
			p[i] = byte(x * 255 / max(width-1, 1))
			p[i+1] = byte(y * 255 / max(height-1, 1))
			p[i+2] = byte((x ^ y) & 0xFF)
			p[i+3] = 0xFF
		}
	}
	if f.Layout() == gd.LayoutBGRA {
		pixel.SwapRB(p)
	}
	return p
}

func isRGBA8(f gd.TextureFormat) bool {
	return f.Elements() == gd.ElementsRGBA && f.Type() == gd.TypeU8 && f.Layout() != gd.LayoutARGB
}

// toImage converts tightly packed 8-bit RGBA or BGRA texels to an image.
func toImage(data []byte, width, height int, f gd.TextureFormat) (*image.RGBA, error) {
	if !isRGBA8(f) {
		return nil, fmt.Errorf("cannot convert %v to an image", f)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if f.Layout() == gd.LayoutBGRA {
		pixel.CopySwapRB(img.Pix, data)
	} else {
		copy(img.Pix, data)
	}
	return img, nil
}

func dumpBMP(path string, data []byte, width, height int, f gd.TextureFormat) error {
	img, err := toImage(data, width, height, f)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}
