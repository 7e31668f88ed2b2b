package gd

import "fmt"

// CheckRead validates the arguments of a texture read and returns the number
// of bytes to copy. Backends call it before touching any native object so
// that a rejected call never modifies dst.
func CheckRead(dst []byte, src TextureHandle, width, height int, format TextureFormat) (int, error) {
	if src == 0 {
		return 0, fmt.Errorf("%w: null texture handle", ErrInvalidParameter)
	}
	size := TextureSize(width, height, format)
	if size == 0 {
		return 0, fmt.Errorf("%w: %dx%d %v", ErrInvalidParameter, width, height, format)
	}
	if len(dst) < size {
		return 0, fmt.Errorf("%w: destination holds %d bytes, need %d", ErrInvalidParameter, len(dst), size)
	}
	return size, nil
}

// CheckWrite validates the arguments of a texture write and returns the
// number of rows touched by src, counting a partial last row.
func CheckWrite(dst TextureHandle, width, height int, format TextureFormat, src []byte) (int, error) {
	if dst == 0 {
		return 0, fmt.Errorf("%w: null texture handle", ErrInvalidParameter)
	}
	size := TextureSize(width, height, format)
	if size == 0 {
		return 0, fmt.Errorf("%w: %dx%d %v", ErrInvalidParameter, width, height, format)
	}
	if len(src) == 0 || len(src) > size {
		return 0, fmt.Errorf("%w: source holds %d bytes, texture holds %d", ErrInvalidParameter, len(src), size)
	}
	rowBytes := width * ElementSize(format)
	return (len(src) + rowBytes - 1) / rowBytes, nil
}

// CheckBuffer validates the arguments of a buffer read or write.
func CheckBuffer(data []byte, handle BufferHandle, role BufferRole) error {
	switch {
	case handle == 0:
		return fmt.Errorf("%w: null buffer handle", ErrInvalidParameter)
	case len(data) == 0:
		return fmt.Errorf("%w: empty buffer transfer", ErrInvalidParameter)
	case !role.Valid():
		return fmt.Errorf("%w: %v", ErrInvalidParameter, role)
	}
	return nil
}
