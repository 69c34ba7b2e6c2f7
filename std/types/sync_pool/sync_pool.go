// Package sync_pool wraps sync.Pool with a typed, resetting interface.
package sync_pool

import "sync"

// SyncPool is a typed sync.Pool whose objects are reset on every Get.
type SyncPool[T any] struct {
	pool  *sync.Pool
	reset func(T)
}

// New creates a pool that allocates with init and clears objects with reset.
func New[T any](init func() T, reset func(T)) SyncPool[T] {
	return SyncPool[T]{
		pool:  &sync.Pool{New: func() any { return init() }},
		reset: reset,
	}
}

// Get returns a reset T from the pool.
func (p SyncPool[T]) Get() T {
	val := p.pool.Get().(T)
	p.reset(val)
	return val
}

// Put returns a T to the pool.
func (p SyncPool[T]) Put(val T) {
	p.pool.Put(val)
}
