package gd

import "fmt"

// TextureFormat describes one element of a texture as three independent bit
// fields: channel count, channel layout and per-channel numeric type.
//
// Only the named combinations below must be supported by backends. The
// layout field never changes the element size, only the channel order.
type TextureFormat uint32

// Element arrangement (channel count).
const (
	ElementsMask TextureFormat = 0x0F
	ElementsR    TextureFormat = 0x01
	ElementsRG   TextureFormat = 0x02
	ElementsRGBA TextureFormat = 0x04
)

// Channel layout.
const (
	LayoutMask TextureFormat = 0xF0
	LayoutRGBA TextureFormat = 0x00
	LayoutARGB TextureFormat = 0x10
	LayoutBGRA TextureFormat = 0x20
)

// Per-channel numeric type.
const (
	TypeMask TextureFormat = 0xF00
	TypeF16  TextureFormat = 0x100
	TypeF32  TextureFormat = 0x200
	TypeU8   TextureFormat = 0x300
	TypeI16  TextureFormat = 0x400
	TypeI32  TextureFormat = 0x500
)

// Named formats, all in native RGBA channel order.
const (
	Rf16    = ElementsR | LayoutRGBA | TypeF16
	RGf16   = ElementsRG | LayoutRGBA | TypeF16
	RGBAf16 = ElementsRGBA | LayoutRGBA | TypeF16
	Rf32    = ElementsR | LayoutRGBA | TypeF32
	RGf32   = ElementsRG | LayoutRGBA | TypeF32
	RGBAf32 = ElementsRGBA | LayoutRGBA | TypeF32
	Ru8     = ElementsR | LayoutRGBA | TypeU8
	RGu8    = ElementsRG | LayoutRGBA | TypeU8
	RGBAu8  = ElementsRGBA | LayoutRGBA | TypeU8
	Ri16    = ElementsR | LayoutRGBA | TypeI16
	RGi16   = ElementsRG | LayoutRGBA | TypeI16
	RGBAi16 = ElementsRGBA | LayoutRGBA | TypeI16
	Ri32    = ElementsR | LayoutRGBA | TypeI32
	RGi32   = ElementsRG | LayoutRGBA | TypeI32
	RGBAi32 = ElementsRGBA | LayoutRGBA | TypeI32

	// I420 is a planar YUV tag. It is declared for completeness and no
	// backend accepts it.
	I420 TextureFormat = 0x1000
)

// Elements returns the element arrangement field.
func (f TextureFormat) Elements() TextureFormat { return f & ElementsMask }

// Layout returns the channel layout field.
func (f TextureFormat) Layout() TextureFormat { return f & LayoutMask }

// Type returns the numeric type field.
func (f TextureFormat) Type() TextureFormat { return f & TypeMask }

// ChannelCount returns 1, 2 or 4, or 0 for an unknown arrangement.
func (f TextureFormat) ChannelCount() int {
	switch f.Elements() {
	case ElementsR:
		return 1
	case ElementsRG:
		return 2
	case ElementsRGBA:
		return 4
	}
	return 0
}

// channelSize returns the byte size of one channel, or 0 for an unknown type.
func (f TextureFormat) channelSize() int {
	switch f.Type() {
	case TypeU8:
		return 1
	case TypeF16, TypeI16:
		return 2
	case TypeF32, TypeI32:
		return 4
	}
	return 0
}

// ElementSize returns the size in bytes of one element of f.
// It returns 0 when f is not a supported combination; callers treat 0 as
// "format not supported by this operation".
func ElementSize(f TextureFormat) int {
	if f&^(ElementsMask|LayoutMask|TypeMask) != 0 {
		return 0
	}
	return f.ChannelCount() * f.channelSize()
}

var typeNames = map[TextureFormat]string{
	TypeF16: "f16",
	TypeF32: "f32",
	TypeU8:  "u8",
	TypeI16: "i16",
	TypeI32: "i32",
}

var elementNames = map[TextureFormat]string{
	ElementsR:    "R",
	ElementsRG:   "RG",
	ElementsRGBA: "RGBA",
}

var layoutNames = map[TextureFormat]string{
	LayoutARGB: "ARGB",
	LayoutBGRA: "BGRA",
}

// String returns the name of f, e.g. "RGBAf32" or "RGBAu8/BGRA". An
// undefined layout is printed in hex, e.g. "RGBAu8/0x30".
func (f TextureFormat) String() string {
	if f == I420 {
		return "I420"
	}
	el, okE := elementNames[f.Elements()]
	ty, okT := typeNames[f.Type()]
	if !okE || !okT || ElementSize(f) == 0 {
		return fmt.Sprintf("TextureFormat(0x%x)", uint32(f))
	}
	switch l := f.Layout(); {
	case l == LayoutRGBA:
		return el + ty
	case layoutNames[l] != "":
		return el + ty + "/" + layoutNames[l]
	default:
		return fmt.Sprintf("%s%s/0x%x", el, ty, uint32(l))
	}
}

// ParseTextureFormat returns the format whose String is s.
func ParseTextureFormat(s string) (TextureFormat, error) {
	if s == "I420" {
		return I420, nil
	}
	for el := range elementNames {
		for ty := range typeNames {
			for l := TextureFormat(0); l <= LayoutMask; l += 0x10 {
				if f := el | ty | l; f.String() == s {
					return f, nil
				}
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown texture format %q", ErrInvalidParameter, s)
}
