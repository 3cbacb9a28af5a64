// Package syncutil holds small concurrency helpers for the CLI tools.
package syncutil

import (
	"sync/atomic"
)

// Atomic holds a value of type T that goroutines can load, store and
// update without a lock.
type Atomic[T any] struct {
	ptr atomic.Pointer[T]
}

// NewAtomic creates a new Atomic instance initialized with the given value.
func NewAtomic[T any](initial T) *Atomic[T] {
	a := &Atomic[T]{}
	a.Store(initial)
	return a
}

// Load returns the current value, or the zero value of T if none was stored.
func (a *Atomic[T]) Load() T {
	p := a.ptr.Load()
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Store sets the value of the Atomic instance.
func (a *Atomic[T]) Store(value T) {
	a.ptr.Store(&value)
}

// Update replaces the value with fn applied to the current one and returns
// the new value. fn may run more than once when other goroutines update the
// value concurrently, so it must not have side effects.
func (a *Atomic[T]) Update(fn func(current T) T) T {
	for {
		old := a.ptr.Load()
		var current T
		if old != nil {
			current = *old
		}

		next := fn(current)
		if a.ptr.CompareAndSwap(old, &next) {
			return next
		}
	}
}
