package staging

// Pool is a bounded memo of staging resources keyed by K.
//
// Pool must not be copied after first use.
type Pool[K comparable, V any] struct {
	entries map[K]V
	limit   int
	release func(V)
	stats   Stats
}

// Stats counts pool activity. Tests use Allocations to observe reuse.
type Stats struct {
	// Allocations is the number of successful create calls.
	Allocations uint64
	// Hits is the number of Get calls served from the pool.
	Hits uint64
	// Clears is the number of wholesale clears, including explicit Clear calls
	// on a non-empty pool.
	Clears uint64
	// Entries is the current number of live entries.
	Entries int
}

// NewPool creates a pool that holds at most limit entries. release is called
// for every entry dropped by a clear; it may be nil. A limit <= 0 means
// unbounded.
func NewPool[K comparable, V any](limit int, release func(V)) *Pool[K, V] {
	return &Pool[K, V]{
		entries: make(map[K]V),
		limit:   limit,
		release: release,
	}
}

// Get returns the entry for key, calling create on a miss. A hit never
// allocates, even when the pool is full. A miss on a full pool clears the
// pool before create runs. If create fails the pool keeps no entry for key.
func (p *Pool[K, V]) Get(key K, create func() (V, error)) (V, error) {
	if v, ok := p.entries[key]; ok {
		p.stats.Hits++
		return v, nil
	}

	if p.limit > 0 && len(p.entries) >= p.limit {
		p.Clear()
	}

	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	p.entries[key] = v
	p.stats.Allocations++
	return v, nil
}

// Clear releases every entry.
func (p *Pool[K, V]) Clear() {
	if len(p.entries) == 0 {
		return
	}
	for k, v := range p.entries {
		if p.release != nil {
			p.release(v)
		}
		delete(p.entries, k)
	}
	p.stats.Clears++
}

// Len returns the number of entries.
func (p *Pool[K, V]) Len() int {
	return len(p.entries)
}

// Limit returns the pool bound.
func (p *Pool[K, V]) Limit() int {
	return p.limit
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[K, V]) Stats() Stats {
	s := p.stats
	s.Entries = len(p.entries)
	return s
}
