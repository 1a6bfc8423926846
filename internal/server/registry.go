package server

import (
	"sync"

	"github.com/google/uuid"
)

// registry holds per-session values keyed by uuid. Each entry carries its own
// lock so one session's mutations never interleave.
type registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
}

type entry[T any] struct {
	mu    sync.Mutex
	value T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{entries: map[string]*entry[T]{}}
}

func (r *registry[T]) add(value T) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.entries[id] = &entry[T]{value: value}
	r.mu.Unlock()
	return id
}

// with runs fn on the entry under its lock. It reports false for unknown ids.
func (r *registry[T]) with(id string, fn func(T)) bool {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.value)
	return true
}

func (r *registry[T]) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

func (r *registry[T]) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
