package engine

import (
	"context"
	"time"

	"github.com/roach88/times/internal/route"
	"github.com/roach88/times/internal/view"
)

// scope is one mounted view and everything it scheduled.
// Loop-only: never touched outside event processing.
type scope struct {
	token  string
	route  string
	ctx    context.Context
	cancel context.CancelFunc
	timers []Timer
	router *route.Context
	view   view.View
}

// effects is the view.Effects handed to a scope. Go and After must be
// called on the loop (from Mount, a handler or a callback). Post may be
// called from any goroutine.
type effects struct {
	e *Engine
	s *scope
}

func (f effects) Go(work func(ctx context.Context) func()) {
	if f.s.ctx.Err() != nil {
		return
	}
	e, token, ctx := f.e, f.s.token, f.s.ctx

	// inflight is released after the continuation is queued so Settle
	// never sees an idle session with a result still on its way.
	e.inflight.Add(1)
	e.workers.Add(1)
	go func() {
		defer e.workers.Done()
		if cont := work(ctx); cont != nil {
			e.queue.Enqueue(Event{Type: EventCallback, Scope: token, Fn: cont})
		}
		e.inflight.Add(-1)
		e.queue.Wake()
	}()
}

func (f effects) After(d time.Duration, fn func()) {
	if f.s.ctx.Err() != nil {
		return
	}
	e, token := f.e, f.s.token
	t := e.sched.AfterFunc(d, func() {
		e.queue.Enqueue(Event{Type: EventCallback, Scope: token, Fn: fn})
	})
	f.s.timers = append(f.s.timers, t)
}

func (f effects) Post(fn func()) {
	f.e.queue.Enqueue(Event{Type: EventCallback, Scope: f.s.token, Fn: fn})
}

// mount creates a scope for comp and mounts it.
func (e *Engine) mount(name string, comp view.Component, router *route.Context) *scope {
	ctx, cancel := context.WithCancel(context.Background())
	s := &scope{
		token:  e.scopes.Generate(),
		route:  name,
		ctx:    ctx,
		cancel: cancel,
		router: router,
	}
	e.mounted[s.token] = s
	s.view = comp.Mount(view.Props{Router: router, Effects: effects{e: e, s: s}, Attrs: e.attrs})

	e.logger.Debug("mounted",
		"session", e.session,
		"route", name,
		"scope", s.token,
	)
	return s
}

// unmount retires s. Pending callbacks for its token become no-ops.
func (e *Engine) unmount(s *scope) {
	if s == nil {
		return
	}
	delete(e.mounted, s.token)
	s.cancel()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	if u, ok := s.view.(view.Unmounter); ok {
		u.Unmount()
	}

	e.logger.Debug("unmounted",
		"session", e.session,
		"route", s.route,
		"scope", s.token,
	)
}
