package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Config string
	Mode   string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render one location to stdout",
		Long: `Render one location exactly as the server would and print the HTML.

The page is rendered in a fresh session that is given the configured
render timeout to load its posts.

Examples:
  times render /
  times render /2 --format json
  times render /contact --mode fetch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "path to a CUE config file")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "store or fetch (overrides config)")

	return cmd
}

func runRender(ctx context.Context, opts *RenderOptions, path string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.Config, cmd, map[string]*string{"mode": &opts.Mode})
	if err != nil {
		return err
	}
	// One-off renders are never journaled.
	cfg.DB = ""
	logger := cfg.Logger(cmd.ErrOrStderr(), opts.Verbose)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start", err)
	}
	defer a.Close()

	page, err := a.server.Render(ctx, path)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("render %s", path), err)
	}

	return formatter(opts.RootOptions, cmd.OutOrStdout()).Success(page, func(w io.Writer) {
		fmt.Fprintln(w, page.HTML)
	})
}
