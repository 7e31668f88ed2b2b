package d3d9

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

// Adapter implements gd.Device over a Direct3D 9 device.
//
// Adapter is not safe for concurrent use.
type Adapter struct {
	dev    Device
	query  Query
	native any
	cfg    gd.Config

	surfaces *staging.Pool[stagingKey, Surface]
	released bool
}

var _ gd.Device = (*Adapter)(nil)

// NewAdapter creates an adapter over dev. native is returned by DevicePtr;
// when nil, the device itself is returned.
func NewAdapter(dev Device, native any, cfg gd.Config) (*Adapter, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: %w", gd.ErrInvalidParameter, ErrNoDevice)
	}
	q, err := dev.CreateEventQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrQuery, err)
	}
	if native == nil {
		native = dev
	}
	return &Adapter{
		dev:      dev,
		query:    q,
		native:   native,
		cfg:      cfg,
		surfaces: staging.NewPool[stagingKey, Surface](cfg.MaxStagingTextures, Surface.Release),
	}, nil
}

// DevicePtr returns the native device the adapter was created with.
func (a *Adapter) DevicePtr() any { return a.native }

// Type returns gd.DeviceD3D9.
func (a *Adapter) Type() gd.DeviceType { return gd.DeviceD3D9 }

// SurfaceStats returns the staging surface pool counters.
func (a *Adapter) SurfaceStats() staging.Stats { return a.surfaces.Stats() }

type queryFence struct{ q Query }

func (f queryFence) Signal() error            { return f.q.Issue() }
func (f queryFence) Completed() (bool, error) { return f.q.Poll() }

// live reports ErrReleased once Release has run.
func (a *Adapter) live() error {
	if a.released {
		return fmt.Errorf("d3d9: %w", gd.ErrReleased)
	}
	return nil
}

// Sync blocks until the GPU has finished all work issued so far.
func (a *Adapter) Sync() {
	if a.released {
		return
	}
	if err := gd.WaitFence(queryFence{a.query}, a.cfg.SyncPollInterval); err != nil {
		gd.Logger().Warn("d3d9: sync failed", "err", err)
	}
}

func (a *Adapter) stagingSurface(width, height int, format Format) (Surface, error) {
	clears := a.surfaces.Stats().Clears
	s, err := a.surfaces.Get(stagingKey{width, height, format}, func() (Surface, error) {
		s, err := a.dev.CreateOffscreenPlainSurface(width, height, format)
		if err != nil {
			gd.Logger().Warn("d3d9: offscreen surface creation failed", "width", width, "height", height, "format", format, "err", err)
			return nil, fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrStagingCreate, err)
		}
		gd.Logger().Debug("d3d9: offscreen surface created", "width", width, "height", height, "format", format)
		return s, nil
	})
	if a.surfaces.Stats().Clears != clears {
		gd.Logger().Debug("d3d9: staging surface pool cleared", "limit", a.surfaces.Limit())
	}
	return s, err
}

// topLevel returns a new reference to mip level 0 of the texture h.
func (a *Adapter) topLevel(h gd.TextureHandle) (Surface, error) {
	tex, err := a.dev.OpenTexture(h)
	if err != nil {
		return nil, fmt.Errorf("%w: d3d9: open texture: %w", gd.ErrInvalidParameter, err)
	}
	surf, err := tex.SurfaceLevel(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrSurface, err)
	}
	return surf, nil
}

// lock locks s and checks that the locked rows cover size packed bytes.
func lock(s Surface, readOnly bool, size, rowBytes int) (Locked, error) {
	l, err := s.Lock(readOnly)
	if err != nil {
		gd.Logger().Warn("d3d9: lock failed", "err", err)
		return Locked{}, fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrLock, err)
	}
	if l.Pitch < rowBytes || len(l.Data) < pitchedSize(size, rowBytes, l.Pitch) {
		s.Unlock()
		return Locked{}, fmt.Errorf("%w: %w: pitch %d, %d bytes locked", gd.ErrUnknown, ErrLock, l.Pitch, len(l.Data))
	}
	return l, nil
}

func pitchedSize(size, rowBytes, pitch int) int {
	rows := (size + rowBytes - 1) / rowBytes
	return (rows-1)*pitch + (size - (rows-1)*rowBytes)
}

func rowFunc(swapRB bool) pixel.RowFunc {
	if swapRB {
		return pixel.CopySwapRB
	}
	return nil
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
	native, swapRB, ok := TranslateFormat(format)
	if !ok {
		return fmt.Errorf("%w: %w: %v", gd.ErrInvalidParameter, ErrUnsupportedFormat, format)
	}
	surf, err := a.topLevel(src)
	if err != nil {
		return err
	}
	defer surf.Release()

	st, err := a.stagingSurface(width, height, native)
	if err != nil {
		return err
	}
	if err := a.dev.GetRenderTargetData(surf, st); err != nil {
		gd.Logger().Warn("d3d9: GetRenderTargetData failed", "err", err)
		return fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrCopy, err)
	}
	a.Sync()

	rowBytes := width * gd.ElementSize(format)
	l, err := lock(st, true, size, rowBytes)
	if err != nil {
		return err
	}
	defer st.Unlock()
	pixel.Unpack(dst, l.Data, rowBytes, l.Pitch, size, rowFunc(swapRB))
	return nil
}

// WriteTexture copies src into the texture dst.
func (a *Adapter) WriteTexture(dst gd.TextureHandle, width, height int, format gd.TextureFormat, src []byte) error {
	if err := a.live(); err != nil {
		return err
	}
	if _, err := gd.CheckWrite(dst, width, height, format, src); err != nil {
		return err
	}
	native, swapRB, ok := TranslateFormat(format)
	if !ok {
		return fmt.Errorf("%w: %w: %v", gd.ErrInvalidParameter, ErrUnsupportedFormat, format)
	}
	surf, err := a.topLevel(dst)
	if err != nil {
		return err
	}
	defer surf.Release()

	st, err := a.stagingSurface(width, height, native)
	if err != nil {
		return err
	}

	es := gd.ElementSize(format)
	rowBytes := width * es
	l, err := lock(st, false, len(src), rowBytes)
	if err != nil {
		return err
	}
	pixel.Pack(l.Data, src, rowBytes, l.Pitch, rowFunc(swapRB))
	st.Unlock()

	// Only the written texels are copied; a partial last row is its own rect.
	full := len(src) / rowBytes
	rects := make([]Rect, 0, 2)
	if full > 0 {
		rects = append(rects, Rect{Right: width, Bottom: full})
	}
	if tail := (len(src) % rowBytes) / es; tail > 0 {
		rects = append(rects, Rect{Top: full, Right: tail, Bottom: full + 1})
	}
	for i := range rects {
		if err := a.dev.UpdateSurface(st, &rects[i], surf); err != nil {
			gd.Logger().Warn("d3d9: UpdateSurface failed", "err", err)
			return fmt.Errorf("%w: %w: %w", gd.ErrUnknown, ErrCopy, err)
		}
	}
	return nil
}

// ReadBuffer is not supported by Direct3D 9.
func (a *Adapter) ReadBuffer([]byte, gd.BufferHandle, gd.BufferRole) error {
	return fmt.Errorf("%w: d3d9: buffer read", gd.ErrNotAvailable)
}

// WriteBuffer is not supported by Direct3D 9.
func (a *Adapter) WriteBuffer(gd.BufferHandle, []byte, gd.BufferRole) error {
	return fmt.Errorf("%w: d3d9: buffer write", gd.ErrNotAvailable)
}

// Release frees the staging surfaces and the event query. The native device
// is not released.
func (a *Adapter) Release() {
	if a.released {
		return
	}
	a.released = true
	a.surfaces.Clear()
	a.query.Release()
	gd.Logger().Debug("d3d9: adapter released")
}
