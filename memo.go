package slicestore

import "sync"

// MemoStats counts cache hits and recomputations.
type MemoStats struct {
	Hits   uint64
	Misses uint64
}

// Memo caches the result of fn for the last input only. fn must be pure and
// must not block: it runs under the memo's lock.
//
// Use a comparable struct or array as K to key on several inputs:
//
//	sum := NewMemo(func(in [2]int) int { return in[0] + in[1] })
//	sum.Get([2]int{n1, n2})
type Memo[K comparable, V any] struct {
	mu    sync.Mutex
	fn    func(K) V
	key   K
	val   V
	valid bool
	stats MemoStats
}

// NewMemo returns an empty single-entry cache around fn.
func NewMemo[K comparable, V any](fn func(K) V) *Memo[K, V] {
	return &Memo[K, V]{fn: fn}
}

// Get returns fn(key), recomputing only when key differs from the last one.
func (m *Memo[K, V]) Get(key K) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		m.stats.Hits++
		return m.val
	}
	m.stats.Misses++
	m.val = m.fn(key)
	m.key = key
	m.valid = true
	return m.val
}

// Stats returns hit and miss counts.
func (m *Memo[K, V]) Stats() MemoStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Reset drops the cached entry. Counters are kept.
func (m *Memo[K, V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zeroK K
	var zeroV V
	m.key, m.val, m.valid = zeroK, zeroV, false
}
