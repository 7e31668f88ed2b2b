package pixel

// SwapRB exchanges the first and third byte of every 4-byte element in p,
// converting RGBA8 to BGRA8 and back. A trailing partial element is left
// unchanged. Applying it twice restores the input.
func SwapRB(p []byte) {
	n := len(p) &^ 3
	for i := 0; i < n; i += 4 {
		p[i], p[i+2] = p[i+2], p[i]
	}
}

// CopySwapRB copies src to dst while exchanging the first and third byte of
// every 4-byte element. It has the RowFunc signature. dst and src must not
// overlap unless they are the same slice.
func CopySwapRB(dst, src []byte) {
	n := min(len(dst), len(src))
	whole := n &^ 3
	for i := 0; i < whole; i += 4 {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		dst[i], dst[i+1], dst[i+2], dst[i+3] = b, g, r, a
	}
	copy(dst[whole:n], src[whole:n])
}
