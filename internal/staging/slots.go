package staging

// Slot is one staging buffer and its capacity in bytes.
type Slot[V any] struct {
	Value V
	Size  int
}

// Slots holds one growable staging buffer per role index in [0, n).
type Slots[V any] struct {
	slots   []*Slot[V]
	minSize int
	release func(V)
	stats   Stats
}

// NewSlots creates n empty slots whose first allocation is at least minSize
// bytes. release frees a replaced or cleared buffer; it may be nil.
func NewSlots[V any](n, minSize int, release func(V)) *Slots[V] {
	if minSize <= 0 {
		minSize = 1
	}
	return &Slots[V]{
		slots:   make([]*Slot[V], n),
		minSize: minSize,
		release: release,
	}
}

// GrowSize returns the smallest minSize*2^k that is >= size.
func GrowSize(minSize, size int) int {
	if minSize <= 0 {
		minSize = 1
	}
	n := minSize
	for n < size {
		n *= 2
	}
	return n
}

// Get returns the slot for role, holding at least size bytes. A slot that
// is too small is released and replaced with one of GrowSize bytes, counting
// up from twice its old size. On create failure the slot is left empty.
func (s *Slots[V]) Get(role, size int, create func(size int) (V, error)) (*Slot[V], error) {
	cur := s.slots[role]
	if cur != nil && cur.Size >= size {
		s.stats.Hits++
		return cur, nil
	}

	base := s.minSize
	if cur != nil {
		base = cur.Size * 2
		s.drop(role)
	}
	n := GrowSize(base, size)
	v, err := create(n)
	if err != nil {
		return nil, err
	}
	slot := &Slot[V]{Value: v, Size: n}
	s.slots[role] = slot
	s.stats.Allocations++
	return slot, nil
}

func (s *Slots[V]) drop(role int) {
	if cur := s.slots[role]; cur != nil {
		if s.release != nil {
			s.release(cur.Value)
		}
		s.slots[role] = nil
	}
}

// Clear releases every slot.
func (s *Slots[V]) Clear() {
	cleared := false
	for i := range s.slots {
		if s.slots[i] != nil {
			cleared = true
		}
		s.drop(i)
	}
	if cleared {
		s.stats.Clears++
	}
}

// Stats returns a snapshot of the slot counters. Entries is the number of
// occupied slots.
func (s *Slots[V]) Stats() Stats {
	st := s.stats
	for _, slot := range s.slots {
		if slot != nil {
			st.Entries++
		}
	}
	return st
}
