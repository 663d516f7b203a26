package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualScheduler_FiresInDeadlineOrder(t *testing.T) {
	s := NewManualScheduler()
	var got []string

	s.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	s.AfterFunc(time.Second, func() { got = append(got, "a") })
	s.AfterFunc(2*time.Second, func() { got = append(got, "c") })

	assert.Equal(t, 0, s.Advance(999*time.Millisecond))
	assert.Empty(t, got)

	assert.Equal(t, 3, s.Advance(time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 1999*time.Millisecond, s.Now())
	assert.Equal(t, 0, s.Pending())
}

func TestManualScheduler_Stop(t *testing.T) {
	s := NewManualScheduler()
	fired := false

	timer := s.AfterFunc(time.Second, func() { fired = true })
	assert.Equal(t, 1, s.Pending())
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	s.Advance(time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestManualScheduler_StopAfterFire(t *testing.T) {
	s := NewManualScheduler()
	timer := s.AfterFunc(time.Second, func() {})
	s.Advance(time.Second)
	assert.False(t, timer.Stop())
}

func TestManualScheduler_CallbackSchedulesMore(t *testing.T) {
	s := NewManualScheduler()
	var got []time.Duration

	s.AfterFunc(time.Second, func() {
		got = append(got, s.Now())
		s.AfterFunc(time.Second, func() { got = append(got, s.Now()) })
	})

	assert.Equal(t, 2, s.Advance(3*time.Second))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, got)
}

func TestSequenceGenerator(t *testing.T) {
	g := NewSequenceGenerator("scope")
	assert.Equal(t, "scope-1", g.Generate())
	assert.Equal(t, "scope-2", g.Generate())

	g.Reset()
	assert.Equal(t, "scope-1", g.Generate())

	assert.Equal(t, "id-1", NewSequenceGenerator("").Generate())
}
