//go:build !windows

package d3d11

import (
	"fmt"

	"github.com/NuttawutSanuk/gd"
)

// openNative is only available on windows. Elsewhere a host must supply its
// own Device implementation.
func openNative(uintptr) (Device, error) {
	return nil, fmt.Errorf("%w: d3d11: raw device pointers require windows", gd.ErrNotAvailable)
}
