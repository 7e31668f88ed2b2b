// Package pixel converts rows of texel data between tightly packed CPU
// buffers and pitched GPU mappings.
package pixel

// RowFunc copies one row from src to dst. dst and src have equal length.
type RowFunc func(dst, src []byte)

// Copy is the identity RowFunc.
func Copy(dst, src []byte) { copy(dst, src) }

// Unpack copies size bytes of pitched rows from src into the tightly packed
// dst. rowBytes is the packed row width and pitch the source row stride.
// The last row may be partial when size is not a multiple of rowBytes.
// A nil fn copies verbatim; a matching pitch takes a single block copy.
func Unpack(dst, src []byte, rowBytes, pitch, size int, fn RowFunc) {
	if pitch == rowBytes && fn == nil {
		copy(dst[:size], src[:size])
		return
	}
	if fn == nil {
		fn = Copy
	}
	for off, s := 0, 0; off < size; off, s = off+rowBytes, s+pitch {
		n := min(rowBytes, size-off)
		fn(dst[off:off+n], src[s:s+n])
	}
}

// Pack copies the tightly packed src into pitched rows of dst. It is the
// inverse of Unpack; bytes of dst between rows are left untouched.
func Pack(dst, src []byte, rowBytes, pitch int, fn RowFunc) {
	size := len(src)
	if pitch == rowBytes && fn == nil {
		copy(dst[:size], src)
		return
	}
	if fn == nil {
		fn = Copy
	}
	for off, d := 0, 0; off < size; off, d = off+rowBytes, d+pitch {
		n := min(rowBytes, size-off)
		fn(dst[d:d+n], src[off:off+n])
	}
}

// PaddedRows returns src extended with zeros to a whole number of rows.
// It returns src itself when no padding is needed.
func PaddedRows(src []byte, rowBytes int) []byte {
	rem := len(src) % rowBytes
	if rem == 0 {
		return src
	}
	out := make([]byte, len(src)+rowBytes-rem)
	copy(out, src)
	return out
}
