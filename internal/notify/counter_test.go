package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterIncrementReturnsPostValue(t *testing.T) {
	var c Counter
	assert.Equal(t, 1, c.Increment())
	assert.Equal(t, 2, c.Increment())
	assert.Equal(t, 3, c.Increment())
	assert.Equal(t, 3, c.Value())
}

func TestCounterReset(t *testing.T) {
	var c Counter
	c.Increment()
	c.Increment()
	c.Reset()
	assert.Equal(t, 0, c.Value())

	// Reset with nothing pending is a no-op
	c.Reset()
	assert.Equal(t, 0, c.Value())

	assert.Equal(t, 1, c.Increment())
}

func TestCounterConcurrentIncrements(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 1000

	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				c.Increment()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, c.Value())
}
