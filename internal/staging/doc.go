// Package staging memoizes the CPU-visible staging resources that backends
// allocate to move data in and out of GPU resources the CPU cannot map.
//
// # Pool[K, V]
//
// A bounded keyed pool for staging textures. When a miss finds the pool at
// its bound, every entry is released and the pool starts over; there is no
// per-entry eviction.
//
//	p := staging.NewPool[key, *tex](32, (*tex).Release)
//	t, err := p.Get(key{w, h, fmt}, func() (*tex, error) { return newTex(w, h, fmt) })
//
// # Slots[V]
//
// One growable staging buffer per buffer role. A slot is reused while its
// capacity covers the request and is replaced by a buffer of at least twice
// its size otherwise.
//
// # Thread Safety
//
// Neither type is safe for concurrent use. They are owned by a single
// backend adapter, which is itself single-threaded.
package staging
