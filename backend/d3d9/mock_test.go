package d3d9

import (
	"errors"
	"fmt"

	"github.com/NuttawutSanuk/gd"
)

var bytesPerTexel = map[Format]int{
	FormatA8R8G8B8:      4,
	FormatR16F:          2,
	FormatG16R16F:       4,
	FormatA16B16G16R16F: 8,
	FormatR32F:          4,
	FormatG32R32F:       8,
	FormatA32B32G32R32F: 16,
}

// mockSurface is a surface held in CPU memory with a configurable pitch.
type mockSurface struct {
	w, h     int
	bpp      int
	pitch    int
	data     []byte
	locked   bool
	lockErr  error
	discards int
	released bool
}

func newMockSurface(w, h int, f Format, pitchAlign int) *mockSurface {
	bpp := bytesPerTexel[f]
	pitch := w * bpp
	if pitchAlign > 0 {
		pitch = (pitch + pitchAlign - 1) / pitchAlign * pitchAlign
	}
	return &mockSurface{w: w, h: h, bpp: bpp, pitch: pitch, data: make([]byte, pitch*h)}
}

func (s *mockSurface) Lock(readOnly bool) (Locked, error) {
	if s.lockErr != nil {
		return Locked{}, s.lockErr
	}
	s.locked = true
	if !readOnly {
		s.discards++
	}
	return Locked{Data: s.data, Pitch: s.pitch}, nil
}

func (s *mockSurface) Unlock()  { s.locked = false }
func (s *mockSurface) Release() { s.released = true }

// row returns the packed bytes of row y.
func (s *mockSurface) row(y int) []byte {
	return s.data[y*s.pitch : y*s.pitch+s.w*s.bpp]
}

type mockTexture struct {
	top   *mockSurface
	level error
	refs  int
}

// levelRef is a counted reference to a texture's top level.
type levelRef struct {
	*mockSurface
	tex *mockTexture
}

func (r *levelRef) Release() { r.tex.refs-- }

func (t *mockTexture) SurfaceLevel(level int) (Surface, error) {
	if t.level != nil {
		return nil, t.level
	}
	if level != 0 {
		return nil, fmt.Errorf("no level %d", level)
	}
	t.refs++
	return &levelRef{t.top, t}, nil
}

type mockQuery struct {
	issues       int
	polls        int
	pendingPolls int
	pollErr      error
	released     bool
}

func (q *mockQuery) Issue() error { q.issues++; return nil }

func (q *mockQuery) Poll() (bool, error) {
	q.polls++
	if q.pollErr != nil {
		return false, q.pollErr
	}
	if q.pendingPolls > 0 {
		q.pendingPolls--
		return false, nil
	}
	return true, nil
}

func (q *mockQuery) Release() { q.released = true }

// mockDevice simulates a D3D9 device whose video memory is plain slices.
type mockDevice struct {
	pitchAlign int
	textures   map[gd.TextureHandle]*mockTexture
	created    []*mockSurface
	createErr  error
	copyErr    error
	queryErr   error
	query      *mockQuery
	rtCopies   int
	updates    []Rect
}

func newMockDevice(pitchAlign int) *mockDevice {
	return &mockDevice{
		pitchAlign: pitchAlign,
		textures:   make(map[gd.TextureHandle]*mockTexture),
		query:      &mockQuery{},
	}
}

func (d *mockDevice) addTexture(w, h int, f Format) (gd.TextureHandle, *mockSurface) {
	s := newMockSurface(w, h, f, d.pitchAlign)
	hnd := gd.TextureHandle(0x1000 + len(d.textures))
	d.textures[hnd] = &mockTexture{top: s}
	return hnd, s
}

func surfaceData(s Surface) *mockSurface {
	switch v := s.(type) {
	case *mockSurface:
		return v
	case *levelRef:
		return v.mockSurface
	}
	panic(fmt.Sprintf("unexpected surface %T", s))
}

func (d *mockDevice) CreateOffscreenPlainSurface(w, h int, f Format) (Surface, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	s := newMockSurface(w, h, f, d.pitchAlign)
	d.created = append(d.created, s)
	return s, nil
}

func (d *mockDevice) GetRenderTargetData(src, dst Surface) error {
	if d.copyErr != nil {
		return d.copyErr
	}
	d.rtCopies++
	from, to := surfaceData(src), surfaceData(dst)
	for y := range min(from.h, to.h) {
		copy(to.row(y), from.row(y))
	}
	return nil
}

func (d *mockDevice) UpdateSurface(src Surface, rect *Rect, dst Surface) error {
	if d.copyErr != nil {
		return d.copyErr
	}
	if rect == nil {
		return errors.New("nil rect")
	}
	d.updates = append(d.updates, *rect)
	from, to := surfaceData(src), surfaceData(dst)
	lo, hi := rect.Left*from.bpp, rect.Right*from.bpp
	for y := rect.Top; y < rect.Bottom; y++ {
		copy(to.row(y)[lo:hi], from.row(y)[lo:hi])
	}
	return nil
}

func (d *mockDevice) CreateEventQuery() (Query, error) {
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	return d.query, nil
}

func (d *mockDevice) OpenTexture(h gd.TextureHandle) (Texture, error) {
	if t, ok := d.textures[h]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("no texture %#x", uintptr(h))
}

func (d *mockDevice) Pointer() uintptr { return 0 }
