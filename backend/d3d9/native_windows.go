//go:build windows

package d3d9

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/gonutz/d3d9"
	"golang.org/x/sys/windows"

	"github.com/NuttawutSanuk/gd"
)

// Raw vtable indices for calls that go around the d3d9 package.
const (
	vtQueryInterface    = 0
	vtRelease           = 2
	vtDeviceCreateQuery = 118
	vtQueryIssue        = 6
	vtQueryGetData      = 7
)

const (
	queryTypeEvent = 8
	issueEnd       = 1
	getDataFlush   = 1
	sFalse         = 1
)

var iidIDirect3DDevice9 = windows.GUID{
	Data1: 0xd0223b96,
	Data2: 0xbf7a,
	Data3: 0x43fd,
	Data4: [8]byte{0x92, 0xbd, 0xa4, 0x3b, 0x0d, 0x82, 0xb9, 0xeb},
}

func comVtblFn(obj uintptr, idx int) uintptr {
	vtablePtr := *(*uintptr)(unsafe.Pointer(obj))
	return *(*uintptr)(unsafe.Pointer(vtablePtr + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
}

// comCall invokes a vtable method whose arguments hold no Go pointers.
func comCall(obj uintptr, idx int, args ...uintptr) uintptr {
	r, _, _ := syscall.SyscallN(comVtblFn(obj, idx), append([]uintptr{obj}, args...)...)
	return r
}

func hresult(name string, r uintptr) error {
	if int32(r) < 0 {
		return fmt.Errorf("%s: %w", name, windows.Errno(r))
	}
	return nil
}

type surface struct {
	s *d3d9.Surface
}

func (s *surface) Lock(readOnly bool) (Locked, error) {
	desc, err := s.s.GetDesc()
	if err != nil {
		return Locked{}, err
	}
	var lr d3d9.LOCKED_RECT
	if readOnly {
		lr, err = s.s.LockRect(nil, d3d9.LOCK_READONLY)
	} else {
		lr, err = s.s.LockRect(nil, d3d9.LOCK_DISCARD)
	}
	if err != nil {
		return Locked{}, err
	}
	n := int(lr.Pitch) * int(desc.Height)
	return Locked{
		Data:  unsafe.Slice((*byte)(unsafe.Pointer(lr.PBits)), n),
		Pitch: int(lr.Pitch),
	}, nil
}

func (s *surface) Unlock() { s.s.UnlockRect() }

func (s *surface) Release() {
	if s.s != nil {
		s.s.Release()
		s.s = nil
	}
}

func surfaceOf(s Surface) *d3d9.Surface {
	if ws, ok := s.(*surface); ok {
		return ws.s
	}
	return nil
}

type texture struct {
	t *d3d9.Texture
}

func (t texture) SurfaceLevel(level int) (Surface, error) {
	s, err := t.t.GetSurfaceLevel(uint(level))
	if err != nil {
		return nil, err
	}
	return &surface{s}, nil
}

// eventQuery is an IDirect3DQuery9 driven through its vtable.
type eventQuery struct {
	ptr uintptr
}

func (q *eventQuery) Issue() error {
	return hresult("Issue", comCall(q.ptr, vtQueryIssue, issueEnd))
}

func (q *eventQuery) Poll() (bool, error) {
	hr := comCall(q.ptr, vtQueryGetData, 0, 0, getDataFlush)
	if hr == sFalse {
		return false, nil
	}
	if err := hresult("GetData", hr); err != nil {
		return false, err
	}
	return true, nil
}

func (q *eventQuery) Release() {
	if q.ptr != 0 {
		comCall(q.ptr, vtRelease)
		q.ptr = 0
	}
}

// device wraps a host-owned IDirect3DDevice9. It holds no reference.
type device struct {
	ptr uintptr
	d   *d3d9.Device
}

// openNative validates ptr with QueryInterface and wraps it.
func openNative(ptr uintptr) (Device, error) {
	var out uintptr
	r, _, _ := syscall.SyscallN(comVtblFn(ptr, vtQueryInterface), ptr,
		uintptr(unsafe.Pointer(&iidIDirect3DDevice9)), uintptr(unsafe.Pointer(&out)))
	if err := hresult("QueryInterface", r); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", gd.ErrInvalidParameter, ErrNotD3D9, err)
	}
	comCall(out, vtRelease)
	return &device{ptr: ptr, d: (*d3d9.Device)(unsafe.Pointer(ptr))}, nil
}

func (d *device) Pointer() uintptr { return d.ptr }

func (d *device) CreateOffscreenPlainSurface(width, height int, format Format) (Surface, error) {
	s, err := d.d.CreateOffscreenPlainSurface(uint(width), uint(height), d3d9.FORMAT(format), d3d9.POOL_SYSTEMMEM, 0)
	if err != nil {
		return nil, err
	}
	return &surface{s}, nil
}

func (d *device) GetRenderTargetData(src, dst Surface) error {
	return d.d.GetRenderTargetData(surfaceOf(src), surfaceOf(dst))
}

func (d *device) UpdateSurface(src Surface, rect *Rect, dst Surface) error {
	var r *d3d9.RECT
	var p *d3d9.POINT
	if rect != nil {
		r = &d3d9.RECT{
			Left:   int32(rect.Left),
			Top:    int32(rect.Top),
			Right:  int32(rect.Right),
			Bottom: int32(rect.Bottom),
		}
		p = &d3d9.POINT{X: int32(rect.Left), Y: int32(rect.Top)}
	}
	return d.d.UpdateSurface(surfaceOf(src), r, surfaceOf(dst), p)
}

func (d *device) CreateEventQuery() (Query, error) {
	var out uintptr
	r, _, _ := syscall.SyscallN(comVtblFn(d.ptr, vtDeviceCreateQuery), d.ptr,
		queryTypeEvent, uintptr(unsafe.Pointer(&out)))
	if err := hresult("CreateQuery", r); err != nil {
		return nil, err
	}
	return &eventQuery{ptr: out}, nil
}

func (d *device) OpenTexture(h gd.TextureHandle) (Texture, error) {
	return texture{(*d3d9.Texture)(unsafe.Pointer(uintptr(h)))}, nil
}
