package staging

import (
	"errors"
	"testing"
)

type texKey struct {
	w, h, format int
}

type fakeTex struct {
	key      texKey
	released bool
}

func newTestPool(limit int) (*Pool[texKey, *fakeTex], *[]*fakeTex) {
	var released []*fakeTex
	p := NewPool[texKey, *fakeTex](limit, func(t *fakeTex) {
		t.released = true
		released = append(released, t)
	})
	return p, &released
}

func get(t *testing.T, p *Pool[texKey, *fakeTex], k texKey) *fakeTex {
	t.Helper()
	v, err := p.Get(k, func() (*fakeTex, error) { return &fakeTex{key: k}, nil })
	if err != nil {
		t.Fatalf("Get(%v) = %v", k, err)
	}
	return v
}

func TestPoolHitDoesNotAllocate(t *testing.T) {
	p, _ := newTestPool(32)
	k := texKey{64, 64, 27}

	first := get(t, p, k)
	second := get(t, p, k)
	if first != second {
		t.Error("repeated key returned a different resource")
	}
	st := p.Stats()
	if st.Allocations != 1 || st.Hits != 1 {
		t.Errorf("Stats() = %+v, want 1 allocation and 1 hit", st)
	}
}

func TestPoolClearsWholesaleAtLimit(t *testing.T) {
	p, released := newTestPool(32)
	for i := range 32 {
		get(t, p, texKey{w: i + 1, h: 1})
	}
	if p.Len() != 32 {
		t.Fatalf("Len() = %d, want 32", p.Len())
	}

	get(t, p, texKey{w: 100, h: 1})
	st := p.Stats()
	if st.Clears != 1 {
		t.Errorf("Clears = %d, want 1", st.Clears)
	}
	if len(*released) != 32 {
		t.Errorf("released %d entries, want 32", len(*released))
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d after clear, want 1", p.Len())
	}
}

func TestPoolHitAtLimitKeepsEntries(t *testing.T) {
	p, released := newTestPool(4)
	for i := range 4 {
		get(t, p, texKey{w: i + 1})
	}
	get(t, p, texKey{w: 2})
	if st := p.Stats(); st.Clears != 0 || st.Allocations != 4 {
		t.Errorf("Stats() = %+v, want no clear and 4 allocations", st)
	}
	if len(*released) != 0 {
		t.Errorf("hit released %d entries", len(*released))
	}
}

func TestPoolManyDistinctKeys(t *testing.T) {
	p, _ := newTestPool(32)
	for i := range 100 {
		get(t, p, texKey{w: i + 1, h: i + 1, format: 2})
	}
	st := p.Stats()
	if st.Clears < 1 {
		t.Errorf("Clears = %d, want at least 1", st.Clears)
	}
	if st.Allocations != 100 {
		t.Errorf("Allocations = %d, want 100", st.Allocations)
	}
	if p.Len() > 32 {
		t.Errorf("Len() = %d exceeds the limit", p.Len())
	}
}

func TestPoolCreateFailureLeavesNoEntry(t *testing.T) {
	p, _ := newTestPool(32)
	errCreate := errors.New("create failed")
	k := texKey{8, 8, 2}

	_, err := p.Get(k, func() (*fakeTex, error) { return nil, errCreate })
	if !errors.Is(err, errCreate) {
		t.Fatalf("Get() = %v, want create error", err)
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d after failed create", p.Len())
	}
	get(t, p, k)
	if p.Stats().Allocations != 1 {
		t.Errorf("Allocations = %d, want 1", p.Stats().Allocations)
	}
}

func TestPoolClear(t *testing.T) {
	p, released := newTestPool(0)
	a := get(t, p, texKey{w: 1})
	b := get(t, p, texKey{w: 2})
	p.Clear()
	p.Clear()
	if !a.released || !b.released {
		t.Error("Clear did not release every entry")
	}
	if len(*released) != 2 {
		t.Errorf("released %d, want 2", len(*released))
	}
	if p.Stats().Clears != 1 {
		t.Errorf("Clears = %d, want 1 (empty clear is not counted)", p.Stats().Clears)
	}
}

func BenchmarkPoolHit(b *testing.B) {
	p := NewPool[texKey, int](32, nil)
	k := texKey{64, 64, 27}
	create := func() (int, error) { return 1, nil }
	_, _ = p.Get(k, create)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Get(k, create)
	}
}
