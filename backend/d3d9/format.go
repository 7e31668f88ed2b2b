package d3d9

import "github.com/NuttawutSanuk/gd"

// Format is D3DFORMAT.
type Format uint32

const (
	FormatUnknown       Format = 0
	FormatA8R8G8B8      Format = 21
	FormatR16F          Format = 111
	FormatG16R16F       Format = 112
	FormatA16B16G16R16F Format = 113
	FormatR32F          Format = 114
	FormatG32R32F       Format = 115
	FormatA32B32G32R32F Format = 116
)

type formatInfo struct {
	native Format
	// swapRB is set when the native texel order is B,G,R,A but the caller's
	// is R,G,B,A.
	swapRB bool
}

var formats = map[gd.TextureFormat]formatInfo{
	gd.RGBAu8:                 {FormatA8R8G8B8, true},
	gd.RGBAu8 | gd.LayoutBGRA: {FormatA8R8G8B8, false},
	gd.RGBAf16:                {FormatA16B16G16R16F, false},
	gd.RGf16:                  {FormatG16R16F, false},
	gd.Rf16:                   {FormatR16F, false},
	gd.RGBAf32:                {FormatA32B32G32R32F, false},
	gd.RGf32:                  {FormatG32R32F, false},
	gd.Rf32:                   {FormatR32F, false},
}

// TranslateFormat returns the D3DFORMAT for f and whether red and blue must
// be swapped during transfers.
func TranslateFormat(f gd.TextureFormat) (Format, bool, bool) {
	info, ok := formats[f]
	return info.native, info.swapRB, ok
}
