package d3d11

import "github.com/NuttawutSanuk/gd"

// Format is DXGI_FORMAT.
type Format uint32

const (
	FormatUnknown           Format = 0
	FormatR32G32B32A32Float Format = 2
	FormatR32G32B32A32Sint  Format = 4
	FormatR16G16B16A16Float Format = 10
	FormatR16G16B16A16Sint  Format = 14
	FormatR32G32Float       Format = 16
	FormatR32G32Sint        Format = 18
	FormatR8G8B8A8Typeless  Format = 27
	FormatR16G16Float       Format = 34
	FormatR16G16Sint        Format = 38
	FormatR32Float          Format = 41
	FormatR32Sint           Format = 43
	FormatR8G8Typeless      Format = 48
	FormatR16Float          Format = 54
	FormatR16Sint           Format = 59
	FormatR8Typeless        Format = 60
	FormatB8G8R8A8Typeless  Format = 90
)

var formats = map[gd.TextureFormat]Format{
	gd.RGBAu8:  FormatR8G8B8A8Typeless,
	gd.RGu8:    FormatR8G8Typeless,
	gd.Ru8:     FormatR8Typeless,
	gd.RGBAf16: FormatR16G16B16A16Float,
	gd.RGf16:   FormatR16G16Float,
	gd.Rf16:    FormatR16Float,
	gd.RGBAi16: FormatR16G16B16A16Sint,
	gd.RGi16:   FormatR16G16Sint,
	gd.Ri16:    FormatR16Sint,
	gd.RGBAf32: FormatR32G32B32A32Float,
	gd.RGf32:   FormatR32G32Float,
	gd.Rf32:    FormatR32Float,
	gd.RGBAi32: FormatR32G32B32A32Sint,
	gd.RGi32:   FormatR32G32Sint,
	gd.Ri32:    FormatR32Sint,

	gd.RGBAu8 | gd.LayoutBGRA: FormatB8G8R8A8Typeless,
}

// TranslateFormat returns the DXGI format for f.
func TranslateFormat(f gd.TextureFormat) (Format, bool) {
	v, ok := formats[f]
	return v, ok
}
