package selectors

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// memoSize bounds how many input identities each selector remembers.
const memoSize = 32

// memo caches results by input identity. Keys are pointers into immutable
// session states, so an equal key always means an equal input.
type memo[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

func newMemo[K comparable, V any]() *memo[K, V] {
	cache, err := lru.New[K, V](memoSize)
	if err != nil {
		panic(err)
	}
	return &memo[K, V]{cache: cache}
}

func (m *memo[K, V]) get(key K, compute func() V) V {
	if v, ok := m.cache.Get(key); ok {
		return v
	}
	v := compute()
	m.cache.Add(key, v)
	return v
}
