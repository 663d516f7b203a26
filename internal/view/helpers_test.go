package view

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/route"
	"github.com/roach88/times/internal/state"
)

// fakeEffects queues async work until run is called. Posted callbacks run
// immediately.
type fakeEffects struct {
	work   []func(context.Context) func()
	timers []fakeTimer
}

type fakeTimer struct {
	after time.Duration
	fn    func()
}

func (f *fakeEffects) Go(work func(context.Context) func()) {
	f.work = append(f.work, work)
}

func (f *fakeEffects) After(d time.Duration, fn func()) {
	f.timers = append(f.timers, fakeTimer{after: d, fn: fn})
}

func (f *fakeEffects) Post(fn func()) {
	fn()
}

func (f *fakeEffects) run() {
	pending := f.work
	f.work = nil
	for _, w := range pending {
		if cont := w(context.Background()); cont != nil {
			cont()
		}
	}
}

func routed(path string) (*route.History, *route.Context) {
	h := route.NewHistory(path)
	return h, route.WithRouter(h, route.NewTable())
}

func newStore(t *testing.T, posts []ir.Post) *state.Store {
	t.Helper()
	s, err := state.New(ir.State{Posts: posts})
	require.NoError(t, err)
	return s
}

func numberedPosts(n int) []ir.Post {
	posts := make([]ir.Post, n)
	for i := range posts {
		id := fmt.Sprint(i + 1)
		posts[i] = ir.Post{ID: id, Title: "title " + id, Body: "body " + id}
	}
	return posts
}

func mustRender(t *testing.T, v View) string {
	t.Helper()
	html, err := v.Render()
	require.NoError(t, err)
	return string(html)
}

// fixedRand always returns n.
type fixedRand struct {
	n     int
	calls int
}

func (r *fixedRand) IntN(int) int {
	r.calls++
	return r.n
}
