package lockkey

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	m := New()

	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("coop:1:prop:2:member:3")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestLockDifferentKeysDoNotBlock(t *testing.T) {
	m := New()

	unlockA := m.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := m.Lock("b")
		unlockB()
		close(done)
	}()

	<-done
}

func TestLockReusesMutexPerKey(t *testing.T) {
	m := New()

	unlock := m.Lock("x")
	unlock()
	unlock = m.Lock("x")
	unlock()

	assert.Len(t, m.locks, 1)
}
