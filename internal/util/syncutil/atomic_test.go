package syncutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAtomic(t *testing.T) {
	t.Run("LoadEmpty", func(t *testing.T) {
		atom := &Atomic[string]{}
		assert.Equal(t, "", atom.Load())
	})

	t.Run("StoreAndLoad", func(t *testing.T) {
		atom := NewAtomic(42)
		assert.Equal(t, 42, atom.Load())

		atom.Store(100)
		assert.Equal(t, 100, atom.Load())
	})

	t.Run("UpdateFromEmpty", func(t *testing.T) {
		atom := &Atomic[int]{}
		assert.Equal(t, 1, atom.Update(func(n int) int { return n + 1 }))
		assert.Equal(t, 1, atom.Load())
	})

	t.Run("ConcurrentUpdate", func(t *testing.T) {
		atom := NewAtomic(0)

		const goroutines = 100
		var wg sync.WaitGroup
		for range goroutines {
			wg.Add(1)
			go func() {
				defer wg.Done()
				atom.Update(func(n int) int { return n + 1 })
			}()
		}
		wg.Wait()

		assert.Equal(t, goroutines, atom.Load())
	})
}

func TestAtomicTime(t *testing.T) {
	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)

	atom := NewAtomicTime(now)
	assert.Equal(t, now, atom.Load())

	StoreLatest(atom, tomorrow)
	assert.Equal(t, tomorrow, atom.Load())

	StoreLatest(atom, now)
	assert.Equal(t, tomorrow, atom.Load())
}

func TestMaxDuration(t *testing.T) {
	atom := &MaxDuration{}

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			StoreMax(atom, time.Duration(i)*time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, 49*time.Millisecond, atom.Load())
}
