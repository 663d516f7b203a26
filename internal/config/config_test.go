package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ModeStore, cfg.Mode)
	assert.Equal(t, 10, cfg.FetchLimit)
	assert.Equal(t, 2000*time.Millisecond, cfg.RedirectDelay)
	assert.Equal(t, 120, cfg.ExcerptRunes)
	assert.Empty(t, cfg.DB)
}

func TestParse_Overlay(t *testing.T) {
	src := `
mode:           "fetch"
fetch_limit:    5
redirect_delay: "1500ms"
render_timeout: "2s"
log_format:     "json"
`
	cfg, err := Parse("times.cue", []byte(src), Default())
	require.NoError(t, err)

	assert.Equal(t, ModeFetch, cfg.Mode)
	assert.Equal(t, 5, cfg.FetchLimit)
	assert.Equal(t, 1500*time.Millisecond, cfg.RedirectDelay)
	assert.Equal(t, 2*time.Second, cfg.RenderTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.Addr, "unset fields keep their defaults")
	assert.Equal(t, 120, cfg.ExcerptRunes)
}

func TestParse_AcceptsJSON(t *testing.T) {
	cfg, err := Parse("times.json", []byte(`{"addr": ":9000", "excerpt_runes": 80}`), Default())
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 80, cfg.ExcerptRunes)
}

func TestParse_RejectsSchemaViolations(t *testing.T) {
	tests := map[string]string{
		"unknown field":  `colour: "red"`,
		"bad mode":       `mode: "offline"`,
		"zero limit":     `fetch_limit: 0`,
		"bad duration":   `redirect_delay: "soon"`,
		"bad api base":   `api_base: "ftp://example.com"`,
		"bad log level":  `log_level: "trace"`,
		"wrong type":     `fetch_limit: "ten"`,
		"syntax error":   `mode: `,
		"negative runes": `excerpt_runes: -1`,
		"zero runes":     `excerpt_runes: 0`,
		"zero delay":     `redirect_delay: "0s"`,
		"zero ms delay":  `redirect_delay: "0.0ms"`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("times.cue", []byte(src), Default())
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := ApplyEnv(Default(), env(map[string]string{
		EnvAddr:    ":7000",
		EnvAPIBase: "http://localhost:3000",
		EnvDB:      "/tmp/times.db",
	}))
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "http://localhost:3000", cfg.APIBase)
	assert.Equal(t, "/tmp/times.db", cfg.DB)

	unchanged := ApplyEnv(Default(), env(nil))
	assert.Equal(t, Default(), unchanged)
}

func TestLoad_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "times.cue")
	require.NoError(t, os.WriteFile(path, []byte(`addr: ":9000"
db: "file.db"
`), 0o644))

	cfg, err := Load(path, env(map[string]string{EnvDB: "env.db"}))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr, "file overrides default")
	assert.Equal(t, "env.db", cfg.DB, "env overrides file")
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"), env(nil))
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "times.cue")
	require.NoError(t, os.WriteFile(path, []byte(`mode: "fetch"`), 0o644))

	_, err := Load(path, env(map[string]string{EnvAPIBase: "not-a-url"}))
	assert.ErrorContains(t, err, "api_base")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Mode = "offline"
	cfg.FetchLimit = 0
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "mode")
	assert.ErrorContains(t, err, "fetch_limit")
	assert.ErrorContains(t, err, "log_format")
}

func TestValidate_RejectsZeroDelayAndRunes(t *testing.T) {
	cfg := Default()
	cfg.RedirectDelay = 0
	cfg.ExcerptRunes = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "redirect_delay 0s: must be positive")
	assert.ErrorContains(t, err, "excerpt_runes 0: must be positive")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()

	cfg.Logger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	cfg.Logger(&buf, true).Debug("shown", "path", "/")
	assert.Contains(t, buf.String(), "msg=shown")

	buf.Reset()
	cfg.LogFormat = "json"
	cfg.Logger(&buf, false).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
