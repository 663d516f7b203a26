package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_FIFO(t *testing.T) {
	q := newEventQueue()

	for _, p := range []string{"/a", "/b", "/c"} {
		require.True(t, q.Enqueue(Event{Type: EventNavigate, Path: p}))
	}

	for _, want := range []string{"/a", "/b", "/c"} {
		e, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, e.Path)
	}
	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestEventQueue_SignalsOnEnqueue(t *testing.T) {
	q := newEventQueue()
	q.Enqueue(Event{Type: EventTrigger, Name: "delete"})

	select {
	case <-q.Wait():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("enqueue did not signal")
	}
}

func TestEventQueue_WakeWithoutEvent(t *testing.T) {
	q := newEventQueue()
	q.Wake()

	select {
	case <-q.Wait():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("wake did not signal")
	}
	assert.Equal(t, 0, q.Len())
}

func TestEventQueue_Close(t *testing.T) {
	q := newEventQueue()
	q.Enqueue(Event{Type: EventTrigger, Name: "pending"})
	q.Close()
	q.Close()

	assert.True(t, q.Closed())
	assert.Equal(t, 0, q.Len(), "close drops pending events")
	assert.False(t, q.Enqueue(Event{Type: EventTrigger}), "enqueue after close should return false")
	assert.NotPanics(t, q.Wake)

	select {
	case _, ok := <-q.Wait():
		assert.False(t, ok, "wait channel should be closed")
	case <-time.After(100 * time.Millisecond):
		t.Fatal("close did not wake waiters")
	}
}

func TestEventQueue_Len(t *testing.T) {
	q := newEventQueue()
	assert.Equal(t, 0, q.Len())

	q.Enqueue(Event{Type: EventCallback, Scope: "s"})
	q.Enqueue(Event{Type: EventCallback, Scope: "s"})
	assert.Equal(t, 2, q.Len())

	q.TryDequeue()
	assert.Equal(t, 1, q.Len())
}

func TestEventQueue_ThreadSafe(t *testing.T) {
	q := newEventQueue()
	const producers = 10
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(Event{Type: EventCallback})
			}
		}()
	}
	wg.Wait()

	n := 0
	for {
		if _, ok := q.TryDequeue(); !ok {
			break
		}
		n++
	}
	assert.Equal(t, producers*perProducer, n)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "navigate", EventNavigate.String())
	assert.Equal(t, "trigger", EventTrigger.String())
	assert.Equal(t, "callback", EventCallback.String())
	assert.Equal(t, "unknown", EventType(0).String())
}
