package d3d9

import "github.com/NuttawutSanuk/gd"

// Rect is a RECT with exclusive Right and Bottom.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Locked is a locked surface. Data covers Pitch bytes for every row.
type Locked struct {
	Data  []byte
	Pitch int
}

// Surface is an IDirect3DSurface9.
type Surface interface {
	// Lock locks the whole surface, read-only or for a discarding write.
	Lock(readOnly bool) (Locked, error)
	Unlock()
	Release()
}

// Texture is an IDirect3DTexture9.
type Texture interface {
	// SurfaceLevel returns a new reference to a mip level surface.
	SurfaceLevel(level int) (Surface, error)
}

// Query is an IDirect3DQuery9 of type D3DQUERYTYPE_EVENT.
type Query interface {
	// Issue enqueues the end-of-work marker.
	Issue() error
	// Poll flushes and reports whether the marker has been reached.
	Poll() (bool, error)
	Release()
}

// Device is the subset of IDirect3DDevice9 the adapter uses.
type Device interface {
	// CreateOffscreenPlainSurface creates a D3DPOOL_SYSTEMMEM surface.
	CreateOffscreenPlainSurface(width, height int, format Format) (Surface, error)
	GetRenderTargetData(src, dst Surface) error
	// UpdateSurface copies rect of src to the same position in dst.
	UpdateSurface(src Surface, rect *Rect, dst Surface) error
	CreateEventQuery() (Query, error)
	// OpenTexture wraps a host-owned texture without taking a reference.
	OpenTexture(h gd.TextureHandle) (Texture, error)
	Pointer() uintptr
}
