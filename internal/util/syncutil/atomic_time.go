package syncutil

import "time"

// AtomicTime is a time.Time type that can be atomically loaded and stored
// by multiple goroutines safely.
type AtomicTime = Atomic[time.Time]

// NewAtomicTime creates a new AtomicTime with an initial value.
func NewAtomicTime(initial time.Time) *AtomicTime {
	return NewAtomic(initial)
}

// StoreLatest stores t unless a later time is already stored.
func StoreLatest(a *AtomicTime, t time.Time) {
	a.Update(func(current time.Time) time.Time {
		if t.After(current) {
			return t
		}
		return current
	})
}

// MaxDuration is an Atomic duration that only grows.
type MaxDuration = Atomic[time.Duration]

// StoreMax stores d if it is longer than the stored duration.
func StoreMax(a *MaxDuration, d time.Duration) {
	a.Update(func(current time.Duration) time.Duration {
		return max(current, d)
	})
}
