package webgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// fakeTexture and fakeBuffer satisfy the HAL interfaces by embedding them;
// the mock device never calls their methods.
type fakeTexture struct {
	hal.Texture
	w, h int
	bpp  int
	data []byte
}

type fakeBuffer struct {
	hal.Buffer
	data      []byte
	usage     gputypes.BufferUsage
	destroyed bool
}

func newFakeTexture(w, h, bpp int) *fakeTexture {
	return &fakeTexture{w: w, h: h, bpp: bpp, data: make([]byte, w*h*bpp)}
}

func newFakeBuffer(n int) *fakeBuffer {
	return &fakeBuffer{data: make([]byte, n)}
}

// mockDevice executes copies immediately on CPU memory and completes the
// fence after pendingWaits unsuccessful waits.
type mockDevice struct {
	created      []*fakeBuffer
	createErr    error
	copyErr      error
	readErr      error
	signals      int
	waits        int
	pendingWaits int
	waitErr      error
	texCopies    []hal.ImageDataLayout
	bufCopies    []uint64
	texWrites    []hal.Extent3D
	bufWrites    int
	overread     error
}

func (d *mockDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	b := newFakeBuffer(int(desc.Size))
	b.usage = desc.Usage
	d.created = append(d.created, b)
	return b, nil
}

func (d *mockDevice) DestroyBuffer(buf hal.Buffer) { buf.(*fakeBuffer).destroyed = true }

func (d *mockDevice) CopyTextureToBuffer(src hal.Texture, dst hal.Buffer, layout hal.ImageDataLayout, size hal.Extent3D) error {
	if d.copyErr != nil {
		return d.copyErr
	}
	d.texCopies = append(d.texCopies, layout)
	t, b := src.(*fakeTexture), dst.(*fakeBuffer)
	rowBytes := int(size.Width) * t.bpp
	if int(layout.BytesPerRow)%256 != 0 {
		return fmt.Errorf("BytesPerRow %d not 256-aligned", layout.BytesPerRow)
	}
	for y := range int(size.Height) {
		off := int(layout.Offset) + y*int(layout.BytesPerRow)
		copy(b.data[off:off+rowBytes], t.data[y*t.w*t.bpp:])
	}
	return nil
}

func (d *mockDevice) CopyBufferToBuffer(src, dst hal.Buffer, size uint64) error {
	if d.copyErr != nil {
		return d.copyErr
	}
	if size%4 != 0 {
		return fmt.Errorf("copy size %d not a multiple of 4", size)
	}
	d.bufCopies = append(d.bufCopies, size)
	copy(dst.(*fakeBuffer).data[:size], src.(*fakeBuffer).data[:size])
	return nil
}

func (d *mockDevice) WriteTexture(dst hal.Texture, data []byte, layout hal.ImageDataLayout, size hal.Extent3D) {
	d.texWrites = append(d.texWrites, size)
	t := dst.(*fakeTexture)
	rowBytes := int(size.Width) * t.bpp
	if need := int(layout.BytesPerRow) * int(size.Height); len(data) < need {
		d.overread = fmt.Errorf("WriteTexture reads %d bytes from a %d byte slice", need, len(data))
		return
	}
	for y := range int(size.Height) {
		copy(t.data[y*t.w*t.bpp:y*t.w*t.bpp+rowBytes], data[y*int(layout.BytesPerRow):])
	}
}

func (d *mockDevice) WriteBuffer(dst hal.Buffer, offset uint64, data []byte) {
	d.bufWrites++
	copy(dst.(*fakeBuffer).data[offset:], data)
}

func (d *mockDevice) ReadBuffer(src hal.Buffer, offset uint64, data []byte) error {
	if d.readErr != nil {
		return d.readErr
	}
	b := src.(*fakeBuffer)
	if int(offset)+len(data) > len(b.data) {
		return errors.New("read past end of buffer")
	}
	copy(data, b.data[offset:])
	return nil
}

func (d *mockDevice) Signal() (uint64, error) {
	d.signals++
	return uint64(d.signals), nil
}

func (d *mockDevice) Wait(value uint64, _ time.Duration) (bool, error) {
	d.waits++
	if d.waitErr != nil {
		return false, d.waitErr
	}
	if value != uint64(d.signals) {
		return false, fmt.Errorf("waited on %d, last signal %d", value, d.signals)
	}
	if d.pendingWaits > 0 {
		d.pendingWaits--
		return false, nil
	}
	return true, nil
}
