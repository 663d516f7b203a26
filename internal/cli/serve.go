package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/times/internal/config"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Config string
	Addr   string
	DB     string
	Mode   string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Run the Advantech Times web server.

Configuration is read from built-in defaults, then the optional CUE file
given by --config, then TIMES_ADDR, TIMES_API_BASE and TIMES_DB, then flags.

With --db every dispatched action and every page navigation is journaled
to SQLite for the trace and replay commands.

Examples:
  times serve
  times serve --addr :9000 --db ./times.db
  times serve --config ./times.cue --mode fetch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "path to a CUE config file")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "journal database path (overrides config)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "store or fetch (overrides config)")

	return cmd
}

// loadConfig resolves the configuration and applies flags the user set.
func loadConfig(path string, cmd *cobra.Command, overrides map[string]*string) (config.Config, error) {
	cfg, err := config.Load(path, os.Getenv)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	for flag, v := range overrides {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		switch flag {
		case "addr":
			cfg.Addr = *v
		case "db":
			cfg.DB = *v
		case "mode":
			cfg.Mode = *v
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.Config, cmd, map[string]*string{
		"addr": &opts.Addr,
		"db":   &opts.DB,
		"mode": &opts.Mode,
	})
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr(), opts.Verbose)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start", err)
	}
	defer a.Close()

	logger.Info("starting",
		"addr", cfg.Addr,
		"mode", cfg.Mode,
		"seed", cfg.Seed,
	)
	if err := a.server.ListenAndServe(ctx, cfg.Addr); err != nil {
		return WrapExitError(ExitFailure, "server stopped", err)
	}
	return nil
}
