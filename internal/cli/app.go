package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/times/internal/config"
	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/source"
	"github.com/roach88/times/internal/state"
	"github.com/roach88/times/internal/store"
	"github.com/roach88/times/internal/view"
	"github.com/roach88/times/internal/web"
)

// app is the wired application behind serve and render.
type app struct {
	server  *web.Server
	state   *state.Store
	journal *store.Journal
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// newApp wires the configured mode, seed, journal and metrics into a server.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	metrics, err := web.NewMetrics(nil)
	if err != nil {
		return nil, err
	}

	var src source.Source
	if cfg.Mode == config.ModeFetch || cfg.Seed == config.SeedRemote {
		src = source.NewHTTP(cfg.APIBase, nil)
	}

	opts := web.Options{
		Source:        src,
		FetchLimit:    cfg.FetchLimit,
		ExcerptRunes:  cfg.ExcerptRunes,
		RenderTimeout: cfg.RenderTimeout,
		Metrics:       metrics,
		Logger:        logger,
	}
	pagesCfg := view.Config{
		Mode:          view.ModeFetch,
		Source:        src,
		FetchLimit:    cfg.FetchLimit,
		ExcerptRunes:  cfg.ExcerptRunes,
		RedirectDelay: cfg.RedirectDelay,
	}

	if cfg.Mode == config.ModeFetch && cfg.DB != "" {
		logger.Warn("journal disabled in fetch mode", "db", cfg.DB)
	}

	if cfg.Mode == config.ModeStore {
		seed, err := loadSeed(ctx, cfg, src)
		if err != nil {
			return nil, err
		}

		storeOpts := []state.Option{
			state.WithRecorder(metrics),
			state.WithLogger(logger),
		}
		if cfg.DB != "" {
			if err := a.openJournal(ctx, cfg.DB, seed); err != nil {
				_ = a.Close()
				return nil, err
			}
			storeOpts = append(storeOpts, state.WithRecorder(a.journal))
			opts.Navigations = a.journal
			logger.Info("journal opened", "db", cfg.DB, "run", a.journal.RunID())
		}

		a.state, err = state.New(seed, storeOpts...)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
		opts.Store = a.state
		opts.Source = nil
		pagesCfg.Mode = view.ModeStore
		pagesCfg.Store = a.state
		pagesCfg.Source = nil
	}

	opts.Pages, err = view.NewPages(pagesCfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.server, err = web.NewServer(opts)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func loadSeed(ctx context.Context, cfg config.Config, src source.Source) (ir.State, error) {
	if cfg.Seed != config.SeedRemote {
		return ir.DefaultState(), nil
	}
	seed, err := source.Seed(ctx, src, cfg.FetchLimit)
	if err != nil {
		return ir.State{}, fmt.Errorf("seed from %s: %w", cfg.APIBase, err)
	}
	return seed, nil
}

func (a *app) openJournal(ctx context.Context, path string, seed ir.State) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	a.closers = append(a.closers, st.Close)

	j, err := store.NewJournal(ctx, st, state.UUIDv7Generator{}.Generate(), seed)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	a.journal = j
	return nil
}
