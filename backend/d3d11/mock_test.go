package d3d11

import (
	"errors"
	"fmt"

	"github.com/NuttawutSanuk/gd"
)

var bytesPerTexel = map[Format]int{
	FormatR8Typeless:        1,
	FormatR8G8Typeless:      2,
	FormatR8G8B8A8Typeless:  4,
	FormatB8G8R8A8Typeless:  4,
	FormatR16Float:          2,
	FormatR32Float:          4,
	FormatR32G32B32A32Float: 16,
	FormatR16G16B16A16Sint:  8,
}

// mockTexture is a texture held in CPU memory with a configurable row pitch.
type mockTexture struct {
	desc     TextureDesc
	bpp      int
	pitch    int
	data     []byte
	released bool
}

func (t *mockTexture) Desc() TextureDesc { return t.desc }
func (t *mockTexture) Release()          { t.released = true }

type mockBuffer struct {
	desc     BufferDesc
	data     []byte
	released bool
}

func (b *mockBuffer) Desc() BufferDesc { return b.desc }
func (b *mockBuffer) Release()         { b.released = true }

type mockQuery struct{ released bool }

func (q *mockQuery) Release() { q.released = true }

// mockDevice simulates a D3D11 device whose GPU memory is plain slices.
type mockDevice struct {
	pitchAlign int
	textures   map[gd.TextureHandle]*mockTexture
	buffers    map[gd.BufferHandle]*mockBuffer
	created    []*mockTexture
	createdBuf []*mockBuffer
	createErr  error
	ctx        *mockContext
	query      *mockQuery
}

func newMockDevice(pitchAlign int) *mockDevice {
	d := &mockDevice{
		pitchAlign: pitchAlign,
		textures:   make(map[gd.TextureHandle]*mockTexture),
		buffers:    make(map[gd.BufferHandle]*mockBuffer),
		query:      &mockQuery{},
	}
	d.ctx = &mockContext{dev: d}
	return d
}

func (d *mockDevice) newTexture(desc TextureDesc) *mockTexture {
	bpp := bytesPerTexel[desc.Format]
	pitch := int(desc.Width) * bpp
	if d.pitchAlign > 0 {
		pitch = (pitch + d.pitchAlign - 1) / d.pitchAlign * d.pitchAlign
	}
	return &mockTexture{desc: desc, bpp: bpp, pitch: pitch, data: make([]byte, pitch*int(desc.Height))}
}

// addTexture registers a host-owned texture and returns its handle.
func (d *mockDevice) addTexture(desc TextureDesc) (gd.TextureHandle, *mockTexture) {
	t := d.newTexture(desc)
	h := gd.TextureHandle(0x1000 + len(d.textures))
	d.textures[h] = t
	return h, t
}

func (d *mockDevice) addBuffer(desc BufferDesc) (gd.BufferHandle, *mockBuffer) {
	b := &mockBuffer{desc: desc, data: make([]byte, desc.ByteWidth)}
	h := gd.BufferHandle(0x2000 + len(d.buffers))
	d.buffers[h] = b
	return h, b
}

func (d *mockDevice) CreateTexture2D(desc *TextureDesc) (Texture2D, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	t := d.newTexture(*desc)
	d.created = append(d.created, t)
	return t, nil
}

func (d *mockDevice) CreateBuffer(desc *BufferDesc) (Buffer, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	b := &mockBuffer{desc: *desc, data: make([]byte, desc.ByteWidth)}
	d.createdBuf = append(d.createdBuf, b)
	return b, nil
}

func (d *mockDevice) CreateEventQuery() (Query, error)   { return d.query, nil }
func (d *mockDevice) ImmediateContext() (Context, error) { return d.ctx, nil }
func (d *mockDevice) Pointer() uintptr                   { return 0 }

func (d *mockDevice) OpenTexture(h gd.TextureHandle) (Texture2D, error) {
	if t, ok := d.textures[h]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("no texture %#x", uintptr(h))
}

func (d *mockDevice) OpenBuffer(h gd.BufferHandle) (Buffer, error) {
	if b, ok := d.buffers[h]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("no buffer %#x", uintptr(h))
}

// mockContext records calls and moves bytes between mock resources.
type mockContext struct {
	dev          *mockDevice
	ends         int
	polls        int
	pendingPolls int
	pollErr      error
	mapErr       error
	mapTypes     []MapType
	mapped       map[Resource]bool
	copies       int
	regionCopies int
	updates      int
	overread     error
	released     bool
}

func (c *mockContext) Map(r Resource, mt MapType) (Mapped, error) {
	if c.mapErr != nil {
		return Mapped{}, c.mapErr
	}
	if c.mapped == nil {
		c.mapped = make(map[Resource]bool)
	}
	c.mapped[r] = true
	c.mapTypes = append(c.mapTypes, mt)
	switch res := r.(type) {
	case *mockTexture:
		return Mapped{Data: res.data, RowPitch: res.pitch}, nil
	case *mockBuffer:
		return Mapped{Data: res.data}, nil
	}
	return Mapped{}, errors.New("unknown resource")
}

func (c *mockContext) Unmap(r Resource) { delete(c.mapped, r) }

func copyTexRegion(dst, src *mockTexture, w, h int) {
	rowBytes := w * src.bpp
	for y := range h {
		copy(dst.data[y*dst.pitch:y*dst.pitch+rowBytes], src.data[y*src.pitch:y*src.pitch+rowBytes])
	}
}

func (c *mockContext) CopyResource(dst, src Resource) {
	c.copies++
	switch d := dst.(type) {
	case *mockTexture:
		// The driver drops copies between differently shaped resources.
		s := src.(*mockTexture)
		if d.desc.Width != s.desc.Width || d.desc.Height != s.desc.Height ||
			d.desc.MipLevels != s.desc.MipLevels || d.desc.ArraySize != s.desc.ArraySize {
			return
		}
		copyTexRegion(d, s, int(s.desc.Width), int(s.desc.Height))
	case *mockBuffer:
		copy(d.data, src.(*mockBuffer).data)
	}
}

func (c *mockContext) CopySubresourceRegion(dst Resource, dstX uint32, src Resource, box *Box) {
	c.regionCopies++
	switch d := dst.(type) {
	case *mockTexture:
		copyTexRegion(d, src.(*mockTexture), int(box.Right-box.Left), int(box.Bottom-box.Top))
	case *mockBuffer:
		copy(d.data[dstX:], src.(*mockBuffer).data[box.Left:box.Right])
	}
}

func (c *mockContext) UpdateSubresource(dst Resource, box *Box, data []byte, rowPitch int) {
	c.updates++
	switch d := dst.(type) {
	case *mockTexture:
		rowBytes := int(box.Right-box.Left) * d.bpp
		rows := int(box.Bottom - box.Top)
		if need := (rows-1)*rowPitch + rowBytes; len(data) < need {
			c.overread = fmt.Errorf("UpdateSubresource reads %d bytes from a %d byte slice", need, len(data))
			return
		}
		for y := range rows {
			off := (int(box.Top)+y)*d.pitch + int(box.Left)*d.bpp
			copy(d.data[off:off+rowBytes], data[y*rowPitch:y*rowPitch+rowBytes])
		}
	case *mockBuffer:
		if box == nil {
			copy(d.data, data)
			return
		}
		if len(data) < int(box.Right-box.Left) {
			c.overread = errors.New("UpdateSubresource box larger than data")
			return
		}
		copy(d.data[box.Left:box.Right], data)
	}
}

func (c *mockContext) End(Query) { c.ends++ }

func (c *mockContext) GetData(Query) (bool, error) {
	c.polls++
	if c.pollErr != nil {
		return false, c.pollErr
	}
	if c.pendingPolls > 0 {
		c.pendingPolls--
		return false, nil
	}
	return true, nil
}

func (c *mockContext) Release() { c.released = true }
