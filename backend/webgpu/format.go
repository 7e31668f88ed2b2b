package webgpu

import (
	"github.com/gogpu/gputypes"

	"github.com/NuttawutSanuk/gd"
)

var formats = map[gd.TextureFormat]gputypes.TextureFormat{
	gd.Ru8:                    gputypes.TextureFormatR8Unorm,
	gd.RGu8:                   gputypes.TextureFormatRG8Unorm,
	gd.RGBAu8:                 gputypes.TextureFormatRGBA8Unorm,
	gd.RGBAu8 | gd.LayoutBGRA: gputypes.TextureFormatBGRA8Unorm,
	gd.Rf16:                   gputypes.TextureFormatR16Float,
	gd.RGf16:                  gputypes.TextureFormatRG16Float,
	gd.RGBAf16:                gputypes.TextureFormatRGBA16Float,
	gd.Rf32:                   gputypes.TextureFormatR32Float,
	gd.RGf32:                  gputypes.TextureFormatRG32Float,
	gd.RGBAf32:                gputypes.TextureFormatRGBA32Float,
	gd.Ri16:                   gputypes.TextureFormatR16Sint,
	gd.RGi16:                  gputypes.TextureFormatRG16Sint,
	gd.RGBAi16:                gputypes.TextureFormatRGBA16Sint,
	gd.Ri32:                   gputypes.TextureFormatR32Sint,
	gd.RGi32:                  gputypes.TextureFormatRG32Sint,
	gd.RGBAi32:                gputypes.TextureFormatRGBA32Sint,
}

// TranslateFormat returns the WebGPU texture format for f.
func TranslateFormat(f gd.TextureFormat) (gputypes.TextureFormat, bool) {
	tf, ok := formats[f]
	return tf, ok
}

// copyPitchAlignment is the required BytesPerRow alignment of
// texture-to-buffer copies.
const copyPitchAlignment = 256

func alignedPitch(rowBytes int) int {
	return (rowBytes + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// copySize rounds n up to the 4-byte copy granularity without passing limit.
func copySize(n, limit int) int {
	return min((n+3)&^3, limit)
}
