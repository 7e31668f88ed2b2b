package d3d11

import (
	"fmt"

	"github.com/NuttawutSanuk/gd"
	"github.com/NuttawutSanuk/gd/internal/pixel"
	"github.com/NuttawutSanuk/gd/internal/staging"
)

type stagingKey struct {
	width, height int
	format        Format
}

// Adapter implements gd.Device over a Direct3D 11 device.
//
// Adapter is not safe for concurrent use.
type Adapter struct {
	dev    Device
	ctx    Context
	query  Query
	native any
	cfg    gd.Config

	textures *staging.Pool[stagingKey, Texture2D]
	buffers  *staging.Slots[Buffer]
	released bool
}

var _ gd.Device = (*Adapter)(nil)

// NewAdapter creates an adapter over dev. native is returned by DevicePtr;
// when nil, the device itself is returned.
func NewAdapter(dev Device, native any, cfg gd.Config) (*Adapter, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: %w", gd.ErrInvalidParameter, ErrNoDevice)
	}
	ctx, err := dev.ImmediateContext()
	if err != nil {
		return nil, fmt.Errorf("%w: %w: immediate context: %w", gd.ErrUnknown, ErrNoDevice, err)
	}
	q, err := dev.CreateEventQuery()
	if err != nil {
		ctx.Release()
		return nil, fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrQuery, err)
	}
	if native == nil {
		native = dev
	}
	return &Adapter{
		dev:      dev,
		ctx:      ctx,
		query:    q,
		native:   native,
		cfg:      cfg,
		textures: staging.NewPool[stagingKey, Texture2D](cfg.MaxStagingTextures, releaseResource[Texture2D]),
		buffers:  staging.NewSlots[Buffer](int(gd.NumBufferRoles), cfg.MinStagingBufferSize, releaseResource[Buffer]),
	}, nil
}

func releaseResource[R Resource](r R) { r.Release() }

// DevicePtr returns the native device the adapter was created with.
func (a *Adapter) DevicePtr() any { return a.native }

// Type returns gd.DeviceD3D11.
func (a *Adapter) Type() gd.DeviceType { return gd.DeviceD3D11 }

// TextureStats returns the staging texture pool counters.
func (a *Adapter) TextureStats() staging.Stats { return a.textures.Stats() }

// BufferStats returns the staging buffer slot counters.
func (a *Adapter) BufferStats() staging.Stats { return a.buffers.Stats() }

// eventFence issues and polls the adapter's event query.
type eventFence struct{ a *Adapter }

func (f eventFence) Signal() error {
	f.a.ctx.End(f.a.query)
	return nil
}

func (f eventFence) Completed() (bool, error) {
	return f.a.ctx.GetData(f.a.query)
}

// live reports ErrReleased once Release has run.
func (a *Adapter) live() error {
	if a.released {
		return fmt.Errorf("d3d11: %w", gd.ErrReleased)
	}
	return nil
}

// Sync blocks until the GPU has finished all work issued so far.
func (a *Adapter) Sync() {
	if a.released {
		return
	}
	if err := gd.WaitFence(eventFence{a}, a.cfg.SyncPollInterval); err != nil {
		gd.Logger().Warn("d3d11: sync failed", "err", err)
	}
}

func (a *Adapter) stagingTexture(width, height int, format Format) (Texture2D, error) {
	key := stagingKey{width, height, format}
	clears := a.textures.Stats().Clears
	defer func() {
		if a.textures.Stats().Clears != clears {
			gd.Logger().Debug("d3d11: staging texture pool cleared", "limit", a.textures.Limit())
		}
	}()
	return a.textures.Get(key, func() (Texture2D, error) {
		tex, err := a.dev.CreateTexture2D(&TextureDesc{
			Width:       uint32(width),
			Height:      uint32(height),
			MipLevels:   1,
			ArraySize:   1,
			Format:      format,
			SampleCount: 1,
			Usage:       UsageStaging,
			CPUAccess:   CPUAccessRead | CPUAccessWrite,
		})
		if err != nil {
			gd.Logger().Warn("d3d11: staging texture creation failed", "width", width, "height", height, "format", format, "err", err)
			return nil, fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrStagingCreate, err)
		}
		gd.Logger().Debug("d3d11: staging texture created", "width", width, "height", height, "format", format)
		return tex, nil
	})
}

func (a *Adapter) stagingBuffer(role gd.BufferRole, size int) (Buffer, error) {
	slot, err := a.buffers.Get(int(role), size, func(n int) (Buffer, error) {
		buf, err := a.dev.CreateBuffer(&BufferDesc{
			ByteWidth: uint32(n),
			Usage:     UsageStaging,
			CPUAccess: CPUAccessRead | CPUAccessWrite,
		})
		if err != nil {
			gd.Logger().Warn("d3d11: staging buffer creation failed", "role", role, "size", n, "err", err)
			return nil, fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrStagingCreate, err)
		}
		gd.Logger().Debug("d3d11: staging buffer allocated", "role", role, "size", n)
		return buf, nil
	})
	if err != nil {
		return nil, err
	}
	return slot.Value, nil
}

func (a *Adapter) mapResource(r Resource, mt MapType, need int) (Mapped, error) {
	m, err := a.ctx.Map(r, mt)
	if err != nil {
		gd.Logger().Warn("d3d11: map failed", "type", mt, "err", err)
		return Mapped{}, fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrMap, err)
	}
	if len(m.Data) < need {
		a.ctx.Unmap(r)
		return Mapped{}, fmt.Errorf("%w: %w: mapped %d bytes, need %d", gd.ErrUnknown, ErrMap, len(m.Data), need)
	}
	return m, nil
}

// writeMapType picks WRITE_DISCARD for dynamic resources, which cannot be
// mapped with plain WRITE, and WRITE otherwise.
func writeMapType(u Usage) MapType {
	if u == UsageDynamic {
		return MapWriteDiscard
	}
	return MapWrite
}

// pitchedSize is the mapped byte count that covers size packed bytes.
func pitchedSize(size, rowBytes, pitch int) int {
	rows := (size + rowBytes - 1) / rowBytes
	return (rows-1)*pitch + (size - (rows-1)*rowBytes)
}

// ReadTexture copies the texture src into dst.
func (a *Adapter) ReadTexture(dst []byte, src gd.TextureHandle, width, height int, format gd.TextureFormat) error {
	if err := a.live(); err != nil {
		return err
	}
	size, err := gd.CheckRead(dst, src, width, height, format)
	if err != nil {
		return err
	}
	dxgi, ok := TranslateFormat(format)
	if !ok {
		return fmt.Errorf("%w: %w: %v", gd.ErrInvalidParameter, ErrUnsupportedFormat, format)
	}
	tex, err := a.dev.OpenTexture(src)
	if err != nil {
		return fmt.Errorf("%w: d3d11: open texture: %w", gd.ErrInvalidParameter, err)
	}
	desc := tex.Desc()
	if int(desc.Width) < width || int(desc.Height) < height {
		return fmt.Errorf("%w: %w: texture is %dx%d", gd.ErrInvalidParameter, ErrTooLarge, desc.Width, desc.Height)
	}

	var from Resource = tex
	if desc.CPUAccess&CPUAccessRead == 0 {
		st, err := a.stagingTexture(width, height, dxgi)
		if err != nil {
			return err
		}
		// CopyResource needs identical dimensions, mip count and array size.
		if int(desc.Width) == width && int(desc.Height) == height && desc.MipLevels == 1 && desc.ArraySize == 1 {
			a.ctx.CopyResource(st, tex)
		} else {
			a.ctx.CopySubresourceRegion(st, 0, tex, &Box{Right: uint32(width), Bottom: uint32(height), Back: 1})
		}
		a.Sync()
		from = st
	}

	rowBytes := width * gd.ElementSize(format)
	m, err := a.mapResource(from, MapRead, 0)
	if err != nil {
		return err
	}
	defer a.ctx.Unmap(from)
	if m.RowPitch < rowBytes || len(m.Data) < pitchedSize(size, rowBytes, m.RowPitch) {
		return fmt.Errorf("%w: %w: row pitch %d for %d byte rows", gd.ErrUnknown, ErrMap, m.RowPitch, rowBytes)
	}
	pixel.Unpack(dst, m.Data, rowBytes, m.RowPitch, size, nil)
	return nil
}

// WriteTexture copies src into the texture dst.
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
	tex, err := a.dev.OpenTexture(dst)
	if err != nil {
		return fmt.Errorf("%w: d3d11: open texture: %w", gd.ErrInvalidParameter, err)
	}
	desc := tex.Desc()
	if int(desc.Width) < width || int(desc.Height) < rows {
		return fmt.Errorf("%w: %w: texture is %dx%d", gd.ErrInvalidParameter, ErrTooLarge, desc.Width, desc.Height)
	}
	rowBytes := width * gd.ElementSize(format)

	if desc.CPUAccess&CPUAccessWrite != 0 {
		m, err := a.mapResource(tex, writeMapType(desc.Usage), 0)
		if err != nil {
			return err
		}
		defer a.ctx.Unmap(tex)
		if m.RowPitch < rowBytes || len(m.Data) < pitchedSize(len(src), rowBytes, m.RowPitch) {
			return fmt.Errorf("%w: %w: row pitch %d for %d byte rows", gd.ErrUnknown, ErrMap, m.RowPitch, rowBytes)
		}
		pixel.Pack(m.Data, src, rowBytes, m.RowPitch, nil)
		return nil
	}

	// UpdateSubresource reads whole rows of the box, so a partial last row
	// is padded before the call.
	box := Box{Right: uint32(width), Bottom: uint32(rows), Back: 1}
	a.ctx.UpdateSubresource(tex, &box, pixel.PaddedRows(src, rowBytes), rowBytes)
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
	buf, err := a.dev.OpenBuffer(src)
	if err != nil {
		return fmt.Errorf("%w: d3d11: open buffer: %w", gd.ErrInvalidParameter, err)
	}
	desc := buf.Desc()
	if len(dst) > int(desc.ByteWidth) {
		return fmt.Errorf("%w: %w: read %d bytes from %d byte buffer", gd.ErrInvalidParameter, ErrTooLarge, len(dst), desc.ByteWidth)
	}

	var from Resource = buf
	if desc.CPUAccess&CPUAccessRead == 0 {
		st, err := a.stagingBuffer(role, len(dst))
		if err != nil {
			return err
		}
		a.ctx.CopySubresourceRegion(st, 0, buf, &Box{Right: uint32(len(dst)), Bottom: 1, Back: 1})
		a.Sync()
		from = st
	}

	m, err := a.mapResource(from, MapRead, len(dst))
	if err != nil {
		return err
	}
	copy(dst, m.Data)
	a.ctx.Unmap(from)
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
	buf, err := a.dev.OpenBuffer(dst)
	if err != nil {
		return fmt.Errorf("%w: d3d11: open buffer: %w", gd.ErrInvalidParameter, err)
	}
	desc := buf.Desc()
	if len(src) > int(desc.ByteWidth) {
		return fmt.Errorf("%w: %w: write %d bytes to %d byte buffer", gd.ErrInvalidParameter, ErrTooLarge, len(src), desc.ByteWidth)
	}

	if desc.CPUAccess&CPUAccessWrite != 0 {
		m, err := a.mapResource(buf, writeMapType(desc.Usage), len(src))
		if err != nil {
			return err
		}
		copy(m.Data, src)
		a.ctx.Unmap(buf)
		return nil
	}

	// Constant buffers can only be updated whole.
	if desc.BindFlags&BindConstantBuffer != 0 {
		if len(src) != int(desc.ByteWidth) {
			return fmt.Errorf("%w: d3d11: constant buffer update must cover all %d bytes", gd.ErrInvalidParameter, desc.ByteWidth)
		}
		a.ctx.UpdateSubresource(buf, nil, src, 0)
		return nil
	}
	a.ctx.UpdateSubresource(buf, &Box{Right: uint32(len(src)), Bottom: 1, Back: 1}, src, 0)
	return nil
}

// Release frees the staging resources, the event query and the immediate
// context reference. The native device is not released.
func (a *Adapter) Release() {
	if a.released {
		return
	}
	a.released = true
	a.textures.Clear()
	a.buffers.Clear()
	a.query.Release()
	a.ctx.Release()
	gd.Logger().Debug("d3d11: adapter released")
}
