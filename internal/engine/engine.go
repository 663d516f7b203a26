package engine

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/route"
	"github.com/roach88/times/internal/view"
)

// ShellRoute is the scope name used for the navigation shell.
const ShellRoute = "shell"

// NavigationRecorder observes every location the session shows.
// store.Journal implements it.
type NavigationRecorder interface {
	RecordNavigation(ir.Navigation) error
}

// NavigationRecorderFunc adapts a function into a NavigationRecorder.
type NavigationRecorderFunc func(ir.Navigation) error

// RecordNavigation calls f(n).
func (f NavigationRecorderFunc) RecordNavigation(n ir.Navigation) error {
	return f(n)
}

// Engine is one browsing session.
//
// Thread-safety model:
//   - Navigate, Back, Trigger: safe from any goroutine, they only enqueue
//   - Drain, Settle, Render, Close: serialised; one processes at a time
//   - Location, Match, Session: safe from any goroutine
type Engine struct {
	table    *route.Table
	pages    map[string]view.Component
	shell    view.Component
	attrs    map[string]string
	history  *route.History
	unlisten func()
	queue    *eventQueue
	clock    *Clock
	sched    Scheduler
	scopes   ScopeGenerator
	session  string
	start    string
	recorder NavigationRecorder
	logger   *slog.Logger

	// Loop state, guarded by loopMu.
	loopMu     sync.Mutex
	closed     bool
	mounted    map[string]*scope
	page       *scope
	shellScope *scope

	matchMu sync.RWMutex
	match   route.Match

	inflight atomic.Int64
	workers  sync.WaitGroup
	dropped  atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithShell mounts c above every page. The shell is not selected by the
// route table; it receives its router through route.WithRouter.
func WithShell(c view.Component) Option {
	return func(e *Engine) {
		e.shell = c
	}
}

// WithScheduler sets the timer source. Default: RealScheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.sched = s
	}
}

// WithScopeGenerator sets the scope token source. Default: UUIDv7Generator.
func WithScopeGenerator(g ScopeGenerator) Option {
	return func(e *Engine) {
		e.scopes = g
	}
}

// WithSession sets the session identifier. Default: a UUIDv7.
func WithSession(id string) Option {
	return func(e *Engine) {
		e.session = id
	}
}

// WithLocation sets the first location of the history. Default: "/".
func WithLocation(path string) Option {
	return func(e *Engine) {
		e.start = path
	}
}

// WithNavigationRecorder records every navigation the session processes.
func WithNavigationRecorder(r NavigationRecorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithAttrs sets the caller-supplied props passed to every mount.
func WithAttrs(attrs map[string]string) Option {
	return func(e *Engine) {
		e.attrs = attrs
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates a session showing pages for the locations resolved by table.
// The first navigation is queued; call Drain or Settle to mount it.
func New(table *route.Table, pages map[string]view.Component, opts ...Option) *Engine {
	e := &Engine{
		table:   table,
		pages:   maps.Clone(pages),
		queue:   newEventQueue(),
		clock:   NewClock(),
		sched:   RealScheduler{},
		scopes:  UUIDv7Generator{},
		start:   "/",
		logger:  slog.Default(),
		mounted: make(map[string]*scope),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.session == "" {
		e.session = UUIDv7Generator{}.Generate()
	}

	e.history = route.NewHistory(e.start)
	e.unlisten = e.history.Listen(func(loc string) {
		e.queue.Enqueue(Event{Type: EventNavigate, Path: loc})
	})
	e.queue.Enqueue(Event{Type: EventNavigate, Path: e.history.Location()})
	return e
}

// Session returns the session identifier.
func (e *Engine) Session() string {
	return e.session
}

// Location returns the current history location. It may be ahead of
// Match until queued navigations are processed.
func (e *Engine) Location() string {
	return e.history.Location()
}

// Match returns the route of the mounted page.
func (e *Engine) Match() route.Match {
	e.matchMu.RLock()
	defer e.matchMu.RUnlock()
	return e.match
}

// Dropped returns how many callbacks were discarded because their scope
// had been unmounted.
func (e *Engine) Dropped() int64 {
	return e.dropped.Load()
}

// Navigate pushes path onto the session history.
func (e *Engine) Navigate(path string) error {
	if e.queue.Closed() {
		return newClosedError(e.session)
	}
	e.history.Push(path)
	return nil
}

// Back moves the history one entry back. Returns false at the first entry.
func (e *Engine) Back() (bool, error) {
	if e.queue.Closed() {
		return false, newClosedError(e.session)
	}
	return e.history.Back(), nil
}

// Trigger queues a UI event for the mounted page.
func (e *Engine) Trigger(name string) error {
	if !e.queue.Enqueue(Event{Type: EventTrigger, Name: name}) {
		return newClosedError(e.session)
	}
	return nil
}

// Drain processes every queued event without waiting for async work.
//
// ERROR HANDLING: a failing event is logged and processing continues.
// The failures are also returned, joined.
func (e *Engine) Drain() error {
	e.loopMu.Lock()
	defer e.loopMu.Unlock()

	if e.closed {
		return newClosedError(e.session)
	}

	var errs []error
	for {
		ev, ok := e.queue.TryDequeue()
		if !ok {
			return errors.Join(errs...)
		}
		if err := e.processEvent(ev); err != nil {
			e.logger.Error("event failed",
				"session", e.session,
				"event", ev.Type.String(),
				"error", err,
			)
			errs = append(errs, err)
		}
	}
}

// Settle processes events until the queue is empty and no async work is
// in flight. Pending timers do not keep the session busy.
func (e *Engine) Settle(ctx context.Context) error {
	var errs []error
	for {
		if err := e.Drain(); err != nil {
			if IsClosed(err) {
				return err
			}
			errs = append(errs, err)
		}
		if e.inflight.Load() == 0 && e.queue.Len() == 0 {
			return errors.Join(errs...)
		}

		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("settle: %w", ctx.Err()))
			return errors.Join(errs...)
		case <-e.queue.Wait():
		}
	}
}

// Render renders the mounted page inside the shell and layout.
func (e *Engine) Render(ctx context.Context) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.loopMu.Lock()
	defer e.loopMu.Unlock()

	if e.closed {
		return "", newClosedError(e.session)
	}
	if e.page == nil {
		return "", e.renderError("", errors.New("no page mounted"))
	}

	outlet, err := e.page.view.Render()
	if err != nil {
		return "", e.renderError(e.page.route, err)
	}

	var nav template.HTML
	if e.shellScope != nil {
		if nav, err = e.shellScope.view.Render(); err != nil {
			return "", e.renderError(ShellRoute, err)
		}
	}

	doc, err := view.Layout(view.Document{
		Nav:     nav,
		Outlet:  outlet,
		Refresh: view.RefreshFor(e.page.view),
	})
	if err != nil {
		return "", e.renderError(e.page.route, err)
	}
	return doc, nil
}

func (e *Engine) renderError(routeName string, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeRenderFailed,
		Message: "render failed",
		Session: e.session,
		Route:   routeName,
		Err:     err,
	}
}

// Close unmounts everything, stops the timers, cancels async work and
// waits for it to return. Idempotent.
func (e *Engine) Close() error {
	e.loopMu.Lock()
	if e.closed {
		e.loopMu.Unlock()
		return nil
	}
	e.closed = true
	e.unlisten()
	e.unmount(e.page)
	e.unmount(e.shellScope)
	e.page, e.shellScope = nil, nil
	e.queue.Close()
	e.loopMu.Unlock()

	e.workers.Wait()
	return nil
}

// processEvent routes an event to its handler.
// Called only with loopMu held.
func (e *Engine) processEvent(ev Event) error {
	switch ev.Type {
	case EventNavigate:
		return e.processNavigate(ev.Path)
	case EventTrigger:
		return e.processTrigger(ev.Name)
	case EventCallback:
		e.processCallback(ev)
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", ev.Type)
	}
}

func (e *Engine) processNavigate(path string) error {
	loc := e.history.Location()
	if path != loc {
		// A later push is already queued behind this one.
		e.logger.Debug("skipping superseded navigation",
			"session", e.session,
			"path", path,
			"location", loc,
		)
		return nil
	}

	match := e.table.Resolve(loc)
	e.setMatch(match)
	e.recordNavigation(match)

	if e.shell != nil && e.shellScope == nil {
		e.shellScope = e.mount(ShellRoute, e.shell, route.WithRouter(e.history, e.table))
	}
	if e.shellScope != nil {
		e.shellScope.router.Match = match
	}

	if e.page != nil && sameMatch(e.page.router.Match, match) {
		e.page.router.Match = match
		return nil
	}

	e.unmount(e.page)
	e.page = nil

	comp, ok := e.pages[match.Route.Name]
	if !ok {
		return fmt.Errorf("no component for route %q", match.Route.Name)
	}
	e.page = e.mount(match.Route.Name, comp, route.WithRouter(e.history, e.table))

	e.logger.Info("navigated",
		"session", e.session,
		"path", loc,
		"route", match.Route.Name,
	)
	return nil
}

func (e *Engine) processTrigger(name string) error {
	if e.page == nil {
		return &RuntimeError{
			Code:    ErrCodeUnhandledEvent,
			Message: fmt.Sprintf("event %q: no page mounted", name),
			Session: e.session,
		}
	}

	h, ok := e.page.view.(view.Handler)
	if !ok {
		return &RuntimeError{
			Code:    ErrCodeUnhandledEvent,
			Message: fmt.Sprintf("event %q not handled", name),
			Session: e.session,
			Route:   e.page.route,
		}
	}
	if err := h.Handle(name); err != nil {
		if errors.Is(err, view.ErrUnhandled) {
			return &RuntimeError{
				Code:    ErrCodeUnhandledEvent,
				Message: fmt.Sprintf("event %q not handled", name),
				Session: e.session,
				Route:   e.page.route,
				Err:     err,
			}
		}
		return fmt.Errorf("handle %q on %s: %w", name, e.page.route, err)
	}

	e.logger.Debug("handled event",
		"session", e.session,
		"route", e.page.route,
		"event", name,
	)
	return nil
}

func (e *Engine) processCallback(ev Event) {
	if _, ok := e.mounted[ev.Scope]; !ok {
		e.dropped.Add(1)
		e.logger.Debug("dropping stale callback",
			"session", e.session,
			"scope", ev.Scope,
		)
		return
	}
	if ev.Fn != nil {
		ev.Fn()
	}
}

func (e *Engine) recordNavigation(match route.Match) {
	if e.recorder == nil {
		return
	}
	n := ir.Navigation{
		Session: e.session,
		Seq:     e.clock.Next(),
		Path:    match.Path,
		Route:   match.Route.Name,
	}
	if err := e.recorder.RecordNavigation(n); err != nil {
		e.logger.Error("record navigation failed",
			"session", e.session,
			"path", n.Path,
			"error", err,
		)
	}
}

func (e *Engine) setMatch(m route.Match) {
	e.matchMu.Lock()
	e.match = m
	e.matchMu.Unlock()
}

func sameMatch(a, b route.Match) bool {
	return a.Route.Name == b.Route.Name && maps.Equal(a.Params, b.Params)
}
