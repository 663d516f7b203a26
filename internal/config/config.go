// Package config loads the times configuration.
//
// Sources are layered, later ones winning: built-in defaults, an optional
// CUE file validated against the embedded #Config schema, environment
// variables, then command-line flags (applied by the cli package).
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSrc string

// Environment variables read by ApplyEnv.
const (
	EnvAddr    = "TIMES_ADDR"
	EnvAPIBase = "TIMES_API_BASE"
	EnvDB      = "TIMES_DB"
)

// Valid values for the enumerated fields.
const (
	ModeStore = "store"
	ModeFetch = "fetch"

	SeedDefaults = "defaults"
	SeedRemote   = "remote"
)

// Config is the resolved server configuration.
type Config struct {
	Addr          string
	Mode          string
	Seed          string
	APIBase       string
	FetchLimit    int
	RedirectDelay time.Duration
	RenderTimeout time.Duration
	ExcerptRunes  int
	DB            string // empty disables the journal
	LogLevel      string
	LogFormat     string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:          ":8080",
		Mode:          ModeStore,
		Seed:          SeedDefaults,
		APIBase:       "https://jsonplaceholder.typicode.com",
		FetchLimit:    10,
		RedirectDelay: 2000 * time.Millisecond,
		RenderTimeout: 5 * time.Second,
		ExcerptRunes:  120,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// fileConfig mirrors #Config. Pointers tell unset fields from zero values.
type fileConfig struct {
	Addr          *string `json:"addr"`
	Mode          *string `json:"mode"`
	Seed          *string `json:"seed"`
	APIBase       *string `json:"api_base"`
	FetchLimit    *int    `json:"fetch_limit"`
	RedirectDelay *string `json:"redirect_delay"`
	RenderTimeout *string `json:"render_timeout"`
	ExcerptRunes  *int    `json:"excerpt_runes"`
	DB            *string `json:"db"`
	LogLevel      *string `json:"log_level"`
	LogFormat     *string `json:"log_format"`
}

// Load resolves defaults, the optional file at path and the environment.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = Parse(path, data, cfg); err != nil {
			return Config{}, err
		}
	}
	cfg = ApplyEnv(cfg, getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse validates CUE source against #Config and overlays it on base.
func Parse(filename string, data []byte, base Config) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, fmt.Errorf("parse %s: %s", filename, cueerrors.Details(err, nil))
	}

	v := def.Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %s", filename, cueerrors.Details(err, nil))
	}

	var fc fileConfig
	if err := v.Decode(&fc); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", filename, err)
	}
	return fc.overlay(base)
}

func (fc fileConfig) overlay(c Config) (Config, error) {
	setString(&c.Addr, fc.Addr)
	setString(&c.Mode, fc.Mode)
	setString(&c.Seed, fc.Seed)
	setString(&c.APIBase, fc.APIBase)
	setString(&c.DB, fc.DB)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	if fc.FetchLimit != nil {
		c.FetchLimit = *fc.FetchLimit
	}
	if fc.ExcerptRunes != nil {
		c.ExcerptRunes = *fc.ExcerptRunes
	}
	if err := setDuration(&c.RedirectDelay, fc.RedirectDelay, "redirect_delay"); err != nil {
		return Config{}, err
	}
	if err := setDuration(&c.RenderTimeout, fc.RenderTimeout, "render_timeout"); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, field string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}

// ApplyEnv overlays the TIMES_* environment variables that are set.
// A nil getenv uses os.Getenv.
func ApplyEnv(c Config, getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := getenv(EnvAPIBase); v != "" {
		c.APIBase = v
	}
	if v := getenv(EnvDB); v != "" {
		c.DB = v
	}
	return c
}

// Validate checks the resolved configuration, reporting every problem.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.Mode != ModeStore && c.Mode != ModeFetch {
		errs = append(errs, fmt.Errorf("mode %q: must be store or fetch", c.Mode))
	}
	if c.Seed != SeedDefaults && c.Seed != SeedRemote {
		errs = append(errs, fmt.Errorf("seed %q: must be defaults or remote", c.Seed))
	}
	if (c.Mode == ModeFetch || c.Seed == SeedRemote) &&
		!strings.HasPrefix(c.APIBase, "http://") && !strings.HasPrefix(c.APIBase, "https://") {
		errs = append(errs, fmt.Errorf("api_base %q: must be an http(s) URL", c.APIBase))
	}
	if c.FetchLimit <= 0 {
		errs = append(errs, fmt.Errorf("fetch_limit %d: must be positive", c.FetchLimit))
	}
	if c.RedirectDelay <= 0 {
		errs = append(errs, fmt.Errorf("redirect_delay %s: must be positive", c.RedirectDelay))
	}
	if c.RenderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("render_timeout %s: must be positive", c.RenderTimeout))
	}
	if c.ExcerptRunes <= 0 {
		errs = append(errs, fmt.Errorf("excerpt_runes %d: must be positive", c.ExcerptRunes))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q: must be text or json", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Logger builds the process logger. verbose forces debug level.
func (c Config) Logger(w io.Writer, verbose bool) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
