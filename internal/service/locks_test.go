package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionLocks(t *testing.T) {
	t.Run("acquire and release", func(t *testing.T) {
		locks := newSessionLocks()

		assert.True(t, locks.Acquire("s1", 10*time.Millisecond))
		locks.Release("s1")
		assert.True(t, locks.Acquire("s1", 10*time.Millisecond))
		locks.Release("s1")
	})

	t.Run("second acquire times out while held", func(t *testing.T) {
		locks := newSessionLocks()

		assert.True(t, locks.Acquire("s1", 10*time.Millisecond))
		assert.False(t, locks.Acquire("s1", 20*time.Millisecond))
		locks.Release("s1")
	})

	t.Run("different sessions do not contend", func(t *testing.T) {
		locks := newSessionLocks()

		assert.True(t, locks.Acquire("s1", 10*time.Millisecond))
		assert.True(t, locks.Acquire("s2", 10*time.Millisecond))
		locks.Release("s1")
		locks.Release("s2")
	})

	t.Run("waiter proceeds once holder releases", func(t *testing.T) {
		locks := newSessionLocks()

		assert.True(t, locks.Acquire("s1", 10*time.Millisecond))

		acquired := make(chan bool, 1)
		go func() {
			acquired <- locks.Acquire("s1", time.Second)
		}()

		time.Sleep(20 * time.Millisecond)
		locks.Release("s1")

		select {
		case ok := <-acquired:
			assert.True(t, ok)
			locks.Release("s1")
		case <-time.After(time.Second):
			t.Fatal("waiter never acquired the lock")
		}
	})

	t.Run("entries are reclaimed after last release", func(t *testing.T) {
		locks := newSessionLocks()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if locks.Acquire("s1", time.Second) {
					locks.Release("s1")
				}
			}()
		}
		wg.Wait()

		locks.mu.Lock()
		defer locks.mu.Unlock()
		assert.Empty(t, locks.locks)
	})
}
