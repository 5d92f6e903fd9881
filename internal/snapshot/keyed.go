package snapshot

import "sync"

// Keyed holds one Snapshot per key. Keys must come from a bounded set.
type Keyed[T any] struct {
	mu    sync.Mutex
	items map[string]*Snapshot[T]
}

func NewKeyed[T any]() *Keyed[T] {
	return &Keyed[T]{items: make(map[string]*Snapshot[T])}
}

// Get returns the snapshot for key, creating it on first use.
func (k *Keyed[T]) Get(key string) *Snapshot[T] {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, ok := k.items[key]
	if !ok {
		s = New[T]()
		k.items[key] = s
	}
	return s
}
