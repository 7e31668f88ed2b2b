package webgpu

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/NuttawutSanuk/gd"
	"github.com/NuttawutSanuk/gd/internal/pixel"
	"github.com/NuttawutSanuk/gd/internal/staging"
)

type stagingKey struct {
	width, height int
	format        gputypes.TextureFormat
}

type importedBuffer struct {
	buf  hal.Buffer
	size int
}

// Adapter implements gd.Device over a HAL device.
//
// Import and Forget are safe for concurrent use. Transfers, Sync and Release
// are not.
type Adapter struct {
	dev    Device
	native any
	cfg    gd.Config
	// onRelease destroys objects the adapter created for itself.
	onRelease func()

	mu       sync.RWMutex
	nextID   atomic.Uint64
	textures map[gd.TextureHandle]hal.Texture
	buffers  map[gd.BufferHandle]importedBuffer

	staged   *staging.Pool[stagingKey, hal.Buffer]
	slots    *staging.Slots[hal.Buffer]
	scratch  []byte
	released bool
}

var _ gd.Device = (*Adapter)(nil)

// NewAdapter creates an adapter over dev. native is returned by DevicePtr;
// when nil, the device itself is returned.
func NewAdapter(dev Device, native any, cfg gd.Config) (*Adapter, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: %w", gd.ErrInvalidParameter, ErrNoDevice)
	}
	if native == nil {
		native = dev
	}
	a := &Adapter{
		dev:      dev,
		native:   native,
		cfg:      cfg,
		textures: make(map[gd.TextureHandle]hal.Texture),
		buffers:  make(map[gd.BufferHandle]importedBuffer),
		staged:   staging.NewPool[stagingKey, hal.Buffer](cfg.MaxStagingTextures, dev.DestroyBuffer),
		slots:    staging.NewSlots[hal.Buffer](int(gd.NumBufferRoles), cfg.MinStagingBufferSize, dev.DestroyBuffer),
	}
	// 0 is the null handle.
	a.nextID.Store(1)
	return a, nil
}

func (a *Adapter) newID() uintptr {
	return uintptr(a.nextID.Add(1) - 1)
}

// DevicePtr returns the native value the adapter was created with.
func (a *Adapter) DevicePtr() any { return a.native }

// Type returns gd.DeviceWebGPU.
func (a *Adapter) Type() gd.DeviceType { return gd.DeviceWebGPU }

// TextureStats returns the texture readback buffer pool counters.
func (a *Adapter) TextureStats() staging.Stats { return a.staged.Stats() }

// BufferStats returns the buffer readback slot counters.
func (a *Adapter) BufferStats() staging.Stats { return a.slots.Stats() }

// ImportTexture returns a handle for tex. The texture stays owned by the
// caller and must outlive the handle.
func (a *Adapter) ImportTexture(tex hal.Texture) gd.TextureHandle {
	if tex == nil {
		return 0
	}
	h := gd.TextureHandle(a.newID())
	a.mu.Lock()
	a.textures[h] = tex
	a.mu.Unlock()
	return h
}

// ImportBuffer returns a handle for buf, which holds size bytes.
func (a *Adapter) ImportBuffer(buf hal.Buffer, size uint64) gd.BufferHandle {
	if buf == nil || size == 0 {
		return 0
	}
	h := gd.BufferHandle(a.newID())
	a.mu.Lock()
	a.buffers[h] = importedBuffer{buf: buf, size: int(size)}
	a.mu.Unlock()
	return h
}

// ForgetTexture drops the handle. The texture itself is untouched.
func (a *Adapter) ForgetTexture(h gd.TextureHandle) {
	a.mu.Lock()
	delete(a.textures, h)
	a.mu.Unlock()
}

// ForgetBuffer drops the handle. The buffer itself is untouched.
func (a *Adapter) ForgetBuffer(h gd.BufferHandle) {
	a.mu.Lock()
	delete(a.buffers, h)
	a.mu.Unlock()
}

func (a *Adapter) texture(h gd.TextureHandle) (hal.Texture, error) {
	a.mu.RLock()
	tex, ok := a.textures[h]
	a.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %w: texture %#x", gd.ErrInvalidParameter, ErrUnknownHandle, uintptr(h))
	}
	return tex, nil
}

func (a *Adapter) buffer(h gd.BufferHandle) (importedBuffer, error) {
	a.mu.RLock()
	b, ok := a.buffers[h]
	a.mu.RUnlock()
	if !ok {
		return importedBuffer{}, fmt.Errorf("%w: %w: buffer %#x", gd.ErrInvalidParameter, ErrUnknownHandle, uintptr(h))
	}
	return b, nil
}

// submitFence signals the device fence and waits on the value it returns.
type submitFence struct {
	dev      Device
	interval time.Duration
	value    uint64
}

func (f *submitFence) Signal() error {
	v, err := f.dev.Signal()
	f.value = v
	return err
}

func (f *submitFence) Completed() (bool, error) {
	return f.dev.Wait(f.value, f.interval)
}

// live reports ErrReleased once Release has run.
func (a *Adapter) live() error {
	if a.released {
		return fmt.Errorf("webgpu: %w", gd.ErrReleased)
	}
	return nil
}

// Sync blocks until the GPU has finished all work submitted so far.
func (a *Adapter) Sync() {
	if a.released {
		return
	}
	f := &submitFence{dev: a.dev, interval: a.cfg.SyncPollInterval}
	if err := gd.WaitFence(f, a.cfg.SyncPollInterval); err != nil {
		gd.Logger().Warn("webgpu: sync failed", "err", err)
	}
}

func (a *Adapter) createStaging(label string, size int) (hal.Buffer, error) {
	buf, err := a.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		gd.Logger().Warn("webgpu: staging buffer creation failed", "label", label, "size", size, "err", err)
		return nil, fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrStagingCreate, err)
	}
	gd.Logger().Debug("webgpu: staging buffer created", "label", label, "size", size)
	return buf, nil
}

func (a *Adapter) scratchBuf(n int) []byte {
	if cap(a.scratch) < n {
		a.scratch = make([]byte, n)
	}
	return a.scratch[:n]
}

// ReadTexture copies mip level 0 of the texture src into dst.
func (a *Adapter) ReadTexture(dst []byte, src gd.TextureHandle, width, height int, format gd.TextureFormat) error {
	if err := a.live(); err != nil {
		return err
	}
	size, err := gd.CheckRead(dst, src, width, height, format)
	if err != nil {
		return err
	}
	tf, ok := TranslateFormat(format)
	if !ok {
		return fmt.Errorf("%w: %w: %v", gd.ErrInvalidParameter, ErrUnsupportedFormat, format)
	}
	tex, err := a.texture(src)
	if err != nil {
		return err
	}

	rowBytes := width * gd.ElementSize(format)
	pitch := alignedPitch(rowBytes)
	bufSize := pitch * height

	clears := a.staged.Stats().Clears
	buf, err := a.staged.Get(stagingKey{width, height, tf}, func() (hal.Buffer, error) {
		return a.createStaging("gd_texture_staging", bufSize)
	})
	if err != nil {
		return err
	}
	if a.staged.Stats().Clears != clears {
		gd.Logger().Debug("webgpu: staging buffer pool cleared", "limit", a.staged.Limit())
	}

	err = a.dev.CopyTextureToBuffer(tex, buf,
		hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(pitch), RowsPerImage: uint32(height)},
		hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1})
	if err != nil {
		gd.Logger().Warn("webgpu: texture copy failed", "err", err)
		return fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrCopy, err)
	}
	a.Sync()

	readback := a.scratchBuf(bufSize)
	if err := a.dev.ReadBuffer(buf, 0, readback); err != nil {
		gd.Logger().Warn("webgpu: readback failed", "err", err)
		return fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrReadback, err)
	}
	pixel.Unpack(dst, readback, rowBytes, pitch, size, nil)
	return nil
}

// WriteTexture copies src into mip level 0 of the texture dst. A partial
// last row is padded with zeros.
func (a *Adapter) WriteTexture(dst gd.TextureHandle, width, height int, format gd.TextureFormat, src []byte) error {
	if err := a.live(); err != nil {
		return err
	}
	rows, err := gd.CheckWrite(dst, width, height, format, src)
	if err != nil {
		return err
	}
	if _, ok := TranslateFormat(format); !ok {
		return fmt.Errorf("%w: %w: %v", gd.ErrInvalidParameter, ErrUnsupportedFormat, format)
	}
	tex, err := a.texture(dst)
	if err != nil {
		return err
	}
	rowBytes := width * gd.ElementSize(format)
	a.dev.WriteTexture(tex, pixel.PaddedRows(src, rowBytes),
		hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(rowBytes), RowsPerImage: uint32(rows)},
		hal.Extent3D{Width: uint32(width), Height: uint32(rows), DepthOrArrayLayers: 1})
	return nil
}

// ReadBuffer copies the first len(dst) bytes of src into dst.
func (a *Adapter) ReadBuffer(dst []byte, src gd.BufferHandle, role gd.BufferRole) error {
	if err := a.live(); err != nil {
		return err
	}
	if err := gd.CheckBuffer(dst, src, role); err != nil {
		return err
	}
	b, err := a.buffer(src)
	if err != nil {
		return err
	}
	if len(dst) > b.size {
		return fmt.Errorf("%w: %w: read %d bytes from %d byte buffer", gd.ErrInvalidParameter, ErrTooLarge, len(dst), b.size)
	}

	n := copySize(len(dst), b.size)
	slot, err := a.slots.Get(int(role), n, func(size int) (hal.Buffer, error) {
		return a.createStaging("gd_buffer_staging_"+role.String(), size)
	})
	if err != nil {
		return err
	}
	if err := a.dev.CopyBufferToBuffer(b.buf, slot.Value, uint64(n)); err != nil {
		gd.Logger().Warn("webgpu: buffer copy failed", "role", role, "err", err)
		return fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrCopy, err)
	}
	a.Sync()

	readback := a.scratchBuf(n)
	if err := a.dev.ReadBuffer(slot.Value, 0, readback); err != nil {
		gd.Logger().Warn("webgpu: readback failed", "role", role, "err", err)
		return fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrReadback, err)
	}
	copy(dst, readback)
	return nil
}

// WriteBuffer copies src to the start of dst.
func (a *Adapter) WriteBuffer(dst gd.BufferHandle, src []byte, role gd.BufferRole) error {
	if err := a.live(); err != nil {
		return err
	}
	if err := gd.CheckBuffer(src, dst, role); err != nil {
		return err
	}
	b, err := a.buffer(dst)
	if err != nil {
		return err
	}
	if len(src) > b.size {
		return fmt.Errorf("%w: %w: write %d bytes to %d byte buffer", gd.ErrInvalidParameter, ErrTooLarge, len(src), b.size)
	}
	a.dev.WriteBuffer(b.buf, 0, src)
	return nil
}

// Release destroys the staging buffers and forgets every imported handle.
// Imported resources and the HAL device are not destroyed.
func (a *Adapter) Release() {
	if a.released {
		return
	}
	a.released = true
	a.staged.Clear()
	a.slots.Clear()
	a.mu.Lock()
	clear(a.textures)
	clear(a.buffers)
	a.mu.Unlock()
	if a.onRelease != nil {
		a.onRelease()
	}
	gd.Logger().Debug("webgpu: adapter released")
}
