package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")

	err := WrapExitError(ExitCommandError, "failed to open database", cause)
	assert.Equal(t, "failed to open database: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("x")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "x"))))
}

func TestOutputFormatter_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Success(map[string]int{"n": 1}, func(w io.Writer) {
		fmt.Fprintln(w, "one thing")
	}))
	require.NoError(t, f.Failure(errors.New("broke"), nil))
	assert.Equal(t, "one thing\nError: broke\n", buf.String())
}

func TestOutputFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success(map[string]int{"n": 1}, func(io.Writer) {
		t.Fatal("text renderer used in json mode")
	}))
	var ok Response
	require.NoError(t, json.NewDecoder(&buf).Decode(&ok))
	assert.Equal(t, "ok", ok.Status)
	assert.Nil(t, ok.Error)

	buf.Reset()
	require.NoError(t, f.Failure(NewExitError(ExitFailure, "2 of 3 scenarios failed"), []string{"a"}))
	var failed Response
	require.NoError(t, json.NewDecoder(&buf).Decode(&failed))
	assert.Equal(t, "error", failed.Status)
	require.NotNil(t, failed.Error)
	assert.Equal(t, ExitFailure, failed.Error.Code)
	assert.Equal(t, "2 of 3 scenarios failed", failed.Error.Message)
	assert.Equal(t, []any{"a"}, failed.Data)
}
