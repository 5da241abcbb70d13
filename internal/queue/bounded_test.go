package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOOrderPreserved(t *testing.T) {
	q := NewBounded[int](8)
	for i := 0; i < 5; i++ {
		require.True(t, q.Push(i))
	}
	for i := 0; i < 5; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestCloseDrainsThenReturnsEnd(t *testing.T) {
	q := NewBounded[int](4)
	q.Push(1)
	q.Push(2)
	q.Close()

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestPushBlocksWhenFullAndResumesOnPop(t *testing.T) {
	q := NewBounded[int](8)
	for i := 0; i < 8; i++ {
		require.True(t, q.Push(i))
	}

	pushed := make(chan bool, 1)
	go func() {
		pushed <- q.Push(999)
	}()

	select {
	case <-pushed:
		t.Fatal("push on a full queue should block")
	case <-time.After(50 * time.Millisecond):
	}

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 0, v)

	select {
	case ok := <-pushed:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("push did not resume after pop freed capacity")
	}
}

func TestProducerBlocksAfterEighthPushWithStalledConsumer(t *testing.T) {
	q := NewBounded[int](8)
	var wg sync.WaitGroup
	produced := make(chan int, 100)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if !q.Push(i) {
				return
			}
			produced <- i
		}
	}()

	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, len(produced), 8)

	next := 0
	for next < 100 {
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, next, v)
		next++
	}
	wg.Wait()
}

func TestPopBlocksWhenEmpty(t *testing.T) {
	q := NewBounded[int](2)
	done := make(chan struct{})
	go func() {
		_, ok := q.Pop()
		assert.True(t, ok)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("pop on an empty queue should block")
	case <-time.After(50 * time.Millisecond):
	}

	q.Push(42)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pop did not resume after push")
	}
}
