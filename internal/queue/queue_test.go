package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	ID   int
	Kind string
}

func TestQueue_New(t *testing.T) {
	q := New[event]()

	require.NotNil(t, q)
	assert.True(t, q.Empty())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_PushPopOrder(t *testing.T) {
	q := New[event]()
	q.Push(event{ID: 1, Kind: "damage"})
	q.Push(event{ID: 2}, event{ID: 3})

	for want := 1; want <= 3; want++ {
		e, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, e.ID)
	}

	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, 3, q.Pushed())
}

func TestQueue_PushWhileDraining(t *testing.T) {
	q := New[int]()
	q.Push(1)

	var seen []int
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		seen = append(seen, v)
		if v < 4 {
			q.Push(v + 1)
		}
	}

	assert.Equal(t, []int{1, 2, 3, 4}, seen)
}

func TestQueue_Drain(t *testing.T) {
	q := New[event]()
	q.Push(event{ID: 1}, event{ID: 2})

	got := q.Drain()

	assert.Equal(t, []event{{ID: 1}, {ID: 2}}, got)
	assert.True(t, q.Empty())
	assert.Empty(t, q.Drain())
}

func TestQueue_Clear(t *testing.T) {
	q := New[int]()
	q.Push(1, 2, 3)

	q.Clear()

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 3, q.Pushed())
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(base*100 + j)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, q.Len())
}
