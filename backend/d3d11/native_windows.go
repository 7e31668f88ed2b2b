//go:build windows

package d3d11

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/NuttawutSanuk/gd"
)

// COM vtable indices.
const (
	vtQueryInterface = 0
	vtRelease        = 2

	vtDeviceCreateBuffer        = 3
	vtDeviceCreateTexture2D     = 5
	vtDeviceCreateQuery         = 24
	vtDeviceGetImmediateContext = 40

	vtResourceGetDesc = 10 // ID3D11Texture2D and ID3D11Buffer

	vtCtxMap                   = 14
	vtCtxUnmap                 = 15
	vtCtxEnd                   = 28
	vtCtxGetData               = 29
	vtCtxCopySubresourceRegion = 46
	vtCtxCopyResource          = 47
	vtCtxUpdateSubresource     = 48
)

const (
	queryEvent = 0
	sFalse     = 1
)

var iidID3D11Device = windows.GUID{
	Data1: 0xdb6f6ddb,
	Data2: 0xac77,
	Data3: 0x4e88,
	Data4: [8]byte{0x82, 0x53, 0x81, 0x9d, 0xf9, 0xbb, 0xf1, 0x40},
}

// comVtblFn resolves a COM vtable function pointer by index.
func comVtblFn(obj uintptr, idx int) uintptr {
	vtablePtr := *(*uintptr)(unsafe.Pointer(obj))
	return *(*uintptr)(unsafe.Pointer(vtablePtr + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
}

// comCall invokes a vtable method whose arguments hold no Go pointers. Calls
// that pass Go memory use syscall.SyscallN directly so the conversions stay
// in its argument list.
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

func comRelease(obj uintptr) {
	if obj != 0 {
		comCall(obj, vtRelease)
	}
}

// comResource is an owned or borrowed COM resource pointer.
type comResource struct {
	ptr      uintptr
	borrowed bool
}

func (r *comResource) Release() {
	if !r.borrowed {
		comRelease(r.ptr)
	}
	r.ptr = 0
}

func (r *comResource) raw() uintptr { return r.ptr }

type comTexture struct{ comResource }

func (t *comTexture) Desc() TextureDesc {
	var d TextureDesc
	syscall.SyscallN(comVtblFn(t.ptr, vtResourceGetDesc), t.ptr, uintptr(unsafe.Pointer(&d)))
	return d
}

type comBuffer struct{ comResource }

func (b *comBuffer) Desc() BufferDesc {
	var d BufferDesc
	syscall.SyscallN(comVtblFn(b.ptr, vtResourceGetDesc), b.ptr, uintptr(unsafe.Pointer(&d)))
	return d
}

type comQuery struct{ comResource }

type rawResource interface {
	raw() uintptr
}

func rawOf(r Resource) uintptr {
	if rr, ok := r.(rawResource); ok {
		return rr.raw()
	}
	return 0
}

// comDevice wraps a raw ID3D11Device pointer. It holds no reference.
type comDevice struct {
	ptr uintptr
}

// openNative validates ptr with QueryInterface and wraps it.
func openNative(ptr uintptr) (Device, error) {
	var out uintptr
	r, _, _ := syscall.SyscallN(comVtblFn(ptr, vtQueryInterface), ptr,
		uintptr(unsafe.Pointer(&iidID3D11Device)), uintptr(unsafe.Pointer(&out)))
	if err := hresult("QueryInterface", r); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", gd.ErrInvalidParameter, ErrNotD3D11, err)
	}
	comRelease(out)
	return &comDevice{ptr: ptr}, nil
}

func (d *comDevice) Pointer() uintptr { return d.ptr }

func (d *comDevice) CreateTexture2D(desc *TextureDesc) (Texture2D, error) {
	var out uintptr
	r, _, _ := syscall.SyscallN(comVtblFn(d.ptr, vtDeviceCreateTexture2D), d.ptr,
		uintptr(unsafe.Pointer(desc)), 0, uintptr(unsafe.Pointer(&out)))
	if err := hresult("CreateTexture2D", r); err != nil {
		return nil, err
	}
	return &comTexture{comResource{ptr: out}}, nil
}

func (d *comDevice) CreateBuffer(desc *BufferDesc) (Buffer, error) {
	var out uintptr
	r, _, _ := syscall.SyscallN(comVtblFn(d.ptr, vtDeviceCreateBuffer), d.ptr,
		uintptr(unsafe.Pointer(desc)), 0, uintptr(unsafe.Pointer(&out)))
	if err := hresult("CreateBuffer", r); err != nil {
		return nil, err
	}
	return &comBuffer{comResource{ptr: out}}, nil
}

func (d *comDevice) CreateEventQuery() (Query, error) {
	desc := [2]uint32{queryEvent, 0}
	var out uintptr
	r, _, _ := syscall.SyscallN(comVtblFn(d.ptr, vtDeviceCreateQuery), d.ptr,
		uintptr(unsafe.Pointer(&desc)), uintptr(unsafe.Pointer(&out)))
	if err := hresult("CreateQuery", r); err != nil {
		return nil, err
	}
	return &comQuery{comResource{ptr: out}}, nil
}

func (d *comDevice) ImmediateContext() (Context, error) {
	var out uintptr
	syscall.SyscallN(comVtblFn(d.ptr, vtDeviceGetImmediateContext), d.ptr, uintptr(unsafe.Pointer(&out)))
	if out == 0 {
		return nil, ErrNoDevice
	}
	return &comContext{ptr: out}, nil
}

func (d *comDevice) OpenTexture(h gd.TextureHandle) (Texture2D, error) {
	return &comTexture{comResource{ptr: uintptr(h), borrowed: true}}, nil
}

func (d *comDevice) OpenBuffer(h gd.BufferHandle) (Buffer, error) {
	return &comBuffer{comResource{ptr: uintptr(h), borrowed: true}}, nil
}

// comContext wraps an ID3D11DeviceContext reference owned by the adapter.
type comContext struct {
	ptr uintptr
}

// mappedSubresource matches D3D11_MAPPED_SUBRESOURCE.
type mappedSubresource struct {
	PData      uintptr
	RowPitch   uint32
	DepthPitch uint32
}

func (c *comContext) Map(r Resource, mt MapType) (Mapped, error) {
	var m mappedSubresource
	hr, _, _ := syscall.SyscallN(comVtblFn(c.ptr, vtCtxMap), c.ptr,
		rawOf(r), 0, uintptr(mt), 0, uintptr(unsafe.Pointer(&m)))
	if err := hresult("Map", hr); err != nil {
		return Mapped{}, err
	}

	var n int
	switch res := r.(type) {
	case Texture2D:
		n = int(m.RowPitch) * int(res.Desc().Height)
	case Buffer:
		n = int(res.Desc().ByteWidth)
	}
	return Mapped{
		Data:     unsafe.Slice((*byte)(unsafe.Pointer(m.PData)), n),
		RowPitch: int(m.RowPitch),
	}, nil
}

func (c *comContext) Unmap(r Resource) {
	comCall(c.ptr, vtCtxUnmap, rawOf(r), 0)
}

func (c *comContext) CopyResource(dst, src Resource) {
	comCall(c.ptr, vtCtxCopyResource, rawOf(dst), rawOf(src))
}

func (c *comContext) CopySubresourceRegion(dst Resource, dstX uint32, src Resource, box *Box) {
	syscall.SyscallN(comVtblFn(c.ptr, vtCtxCopySubresourceRegion), c.ptr,
		rawOf(dst), 0, uintptr(dstX), 0, 0,
		rawOf(src), 0, uintptr(unsafe.Pointer(box)))
}

func (c *comContext) UpdateSubresource(dst Resource, box *Box, data []byte, rowPitch int) {
	syscall.SyscallN(comVtblFn(c.ptr, vtCtxUpdateSubresource), c.ptr,
		rawOf(dst), 0, uintptr(unsafe.Pointer(box)),
		uintptr(unsafe.Pointer(unsafe.SliceData(data))), uintptr(rowPitch), 0)
}

func (c *comContext) End(q Query) {
	comCall(c.ptr, vtCtxEnd, rawOf(q))
}

func (c *comContext) GetData(q Query) (bool, error) {
	var done int32
	hr, _, _ := syscall.SyscallN(comVtblFn(c.ptr, vtCtxGetData), c.ptr,
		rawOf(q), uintptr(unsafe.Pointer(&done)), unsafe.Sizeof(done), 0)
	if hr == sFalse {
		return false, nil
	}
	if err := hresult("GetData", hr); err != nil {
		return false, err
	}
	return true, nil
}

func (c *comContext) Release() {
	comRelease(c.ptr)
	c.ptr = 0
}
