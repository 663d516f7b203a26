package harness

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/roach88/times/internal/engine"
	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/route"
	"github.com/roach88/times/internal/source"
	"github.com/roach88/times/internal/state"
	"github.com/roach88/times/internal/testutil"
	"github.com/roach88/times/internal/view"
)

// SessionID is the fixed session identifier of every scenario run.
const SessionID = "scenario"

// settleTimeout bounds how long one step may wait for async work.
const settleTimeout = 5 * time.Second

// Harness holds one scenario's session and its collaborators.
type Harness struct {
	scenario *Scenario
	store    *state.Store
	sched    *testutil.ManualScheduler
	session  *engine.Engine
	logger   *slog.Logger

	mu     sync.Mutex
	result *Result
}

// Option configures a run.
type Option func(*Harness)

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a scenario and returns its result.
//
// The returned error is for problems running the scenario at all. Failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		scenario: scenario,
		sched:    testutil.NewManualScheduler(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		result:   NewResult(),
	}
	for _, opt := range opts {
		opt(h)
	}

	pages, err := h.pages()
	if err != nil {
		return nil, fmt.Errorf("build pages: %w", err)
	}

	h.session = engine.New(route.NewTable(), pages.Routes(),
		engine.WithShell(pages.Navbar),
		engine.WithSession(SessionID),
		engine.WithLocation(scenario.start()),
		engine.WithScheduler(h.sched),
		engine.WithScopeGenerator(testutil.NewSequenceGenerator("scope")),
		engine.WithNavigationRecorder(engine.NavigationRecorderFunc(h.recordNavigation)),
		engine.WithLogger(h.logger),
	)
	defer h.session.Close()

	ctx := context.Background()
	if err := h.settle(ctx); err != nil {
		return nil, fmt.Errorf("open %s: %w", scenario.start(), err)
	}

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	h.mu.Lock()
	result := h.result
	h.mu.Unlock()

	result.Location = h.session.Location()
	if h.store != nil {
		result.State = h.store.GetState()
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// pages builds the page set for the scenario's mode.
func (h *Harness) pages() (*view.Pages, error) {
	cfg := view.Config{
		Rand: rand.New(rand.NewPCG(1, 2)),
	}

	switch h.scenario.mode() {
	case ModeFetch:
		src := source.Static{Posts: toPosts(h.scenario.Remote)}
		if h.scenario.RemoteError != "" {
			src.Err = errors.New(h.scenario.RemoteError)
		}
		cfg.Mode = view.ModeFetch
		cfg.Source = src
	default:
		st, err := state.New(h.scenario.seedState(),
			state.WithIDGenerator(testutil.NewSequenceGenerator("action")),
			state.WithRecorder(state.RecorderFunc(h.recordAction)),
			state.WithLogger(h.logger),
		)
		if err != nil {
			return nil, err
		}
		h.store = st
		cfg.Mode = view.ModeStore
		cfg.Store = st
	}
	return view.NewPages(cfg)
}

func (h *Harness) recordNavigation(n ir.Navigation) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result.AddNavigationTrace(n)
	return nil
}

func (h *Harness) recordAction(a ir.Action) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result.AddActionTrace(a)
	return nil
}

func (h *Harness) addError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result.AddError(msg)
}

// settle runs the session until it is idle.
func (h *Harness) settle(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()
	return h.session.Settle(ctx)
}

// executeStep performs one interaction, settles, and checks the expect
// clause. Runtime errors are only fatal when the step did not expect them.
func (h *Harness) executeStep(ctx context.Context, index int, step Step) error {
	switch {
	case step.Navigate != "":
		if err := h.session.Navigate(step.Navigate); err != nil {
			return err
		}
	case step.Trigger != "":
		if err := h.session.Trigger(step.Trigger); err != nil {
			return err
		}
	case step.Wait != "":
		d, err := time.ParseDuration(step.Wait)
		if err != nil {
			return err
		}
		fired := h.sched.Advance(d)
		h.logger.Debug("advanced scheduler", "step", index, "by", d, "fired", fired)
	case step.Back:
		if _, err := h.session.Back(); err != nil {
			return err
		}
	}

	settleErr := h.settle(ctx)

	var rerr *engine.RuntimeError
	if settleErr != nil && !errors.As(settleErr, &rerr) {
		return settleErr
	}

	if step.Expect == nil {
		if settleErr != nil {
			h.addError(fmt.Sprintf("steps[%d]: unexpected error: %v", index, settleErr))
		}
		return nil
	}

	html, err := h.session.Render(ctx)
	if err != nil && !engine.HasCode(err, engine.ErrCodeRenderFailed) {
		return err
	}
	if err != nil {
		settleErr = errors.Join(settleErr, err)
	}

	obs := observation{
		location: h.session.Location(),
		route:    h.session.Match().Route.Name,
		html:     html,
		err:      settleErr,
	}
	if h.store != nil {
		obs.posts = h.store.GetState().PostIDs()
		obs.checkPosts = true
	}
	for _, msg := range checkExpect(index, step.Expect, obs) {
		h.addError(msg)
	}

	h.logger.Debug("step completed",
		"step", index,
		"location", obs.location,
		"route", obs.route,
	)
	return nil
}

// observation is what an expect clause is checked against.
type observation struct {
	location   string
	route      string
	html       template.HTML
	posts      []string
	checkPosts bool
	err        error
}
