package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/times/internal/ir"
)

func TestParseScenario_Full(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: full
description: "every field"
mode: store
seed:
  - { id: "7", title: "Seven", body: "Body" }
start: /7
steps:
  - navigate: /about
  - trigger: delete
    expect:
      error: UNHANDLED_EVENT
  - wait: 2s
  - back: true
    expect:
      location: /7
      route: post
      contains: [Seven]
      not_contains: [Eight]
      posts: ["7"]
      links: []
assertions:
  - type: trace_contains
    path: /about
  - type: trace_order
    paths: [/7, /about]
  - type: trace_count
    action: DELETE_POST
    count: 0
  - type: final_state
    posts: ["7"]
`))
	require.NoError(t, err)

	assert.Equal(t, "full", s.Name)
	assert.Equal(t, ModeStore, s.mode())
	assert.Equal(t, "/7", s.start())
	assert.Equal(t, ir.State{Posts: []ir.Post{{ID: "7", Title: "Seven", Body: "Body"}}}, s.seedState())
	require.Len(t, s.Steps, 4)
	assert.Equal(t, "/about", s.Steps[0].Navigate)
	assert.Equal(t, "delete", s.Steps[1].Trigger)
	assert.Equal(t, "2s", s.Steps[2].Wait)
	assert.True(t, s.Steps[3].Back)

	x := s.Steps[3].Expect
	require.NotNil(t, x)
	assert.Equal(t, []string{"7"}, x.Posts)
	assert.NotNil(t, x.Links)
	assert.Empty(t, x.Links)
	assert.Len(t, s.Assertions, 4)
}

func TestParseScenario_Defaults(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: defaults
description: "nothing optional"
steps:
  - navigate: /
`))
	require.NoError(t, err)
	assert.Equal(t, ModeStore, s.mode())
	assert.Equal(t, "/", s.start())
	assert.Equal(t, ir.DefaultState(), s.seedState())
}

func TestParseScenario_EmptySeed(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: empty
description: "empty store"
seed: []
steps:
  - navigate: /
`))
	require.NoError(t, err)
	assert.Empty(t, s.seedState().Posts)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "name: x\ndescription: d\nstep:\n  - navigate: /\n",
			want: "field step not found",
		},
		{
			name: "missing name",
			yaml: "description: d\nsteps:\n  - navigate: /\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: x\nsteps:\n  - navigate: /\n",
			want: "description is required",
		},
		{
			name: "no steps",
			yaml: "name: x\ndescription: d\n",
			want: "steps list is required",
		},
		{
			name: "unknown mode",
			yaml: "name: x\ndescription: d\nmode: cache\nsteps:\n  - navigate: /\n",
			want: `unknown mode "cache"`,
		},
		{
			name: "seed in fetch mode",
			yaml: "name: x\ndescription: d\nmode: fetch\nseed: []\nsteps:\n  - navigate: /\n",
			want: "seed needs mode store",
		},
		{
			name: "remote in store mode",
			yaml: "name: x\ndescription: d\nremote: []\nsteps:\n  - navigate: /\n",
			want: "remote and remote_error need mode fetch",
		},
		{
			name: "two actions",
			yaml: "name: x\ndescription: d\nsteps:\n  - navigate: /\n    trigger: delete\n",
			want: "steps[0]: only one of",
		},
		{
			name: "empty step",
			yaml: "name: x\ndescription: d\nsteps:\n  - {}\n",
			want: "steps[0]: empty step",
		},
		{
			name: "bad wait",
			yaml: "name: x\ndescription: d\nsteps:\n  - wait: soon\n",
			want: "steps[0]: wait",
		},
		{
			name: "negative wait",
			yaml: "name: x\ndescription: d\nsteps:\n  - wait: -1s\n",
			want: "wait must be positive",
		},
		{
			name: "unknown route",
			yaml: "name: x\ndescription: d\nsteps:\n  - expect: { route: blog }\n",
			want: `unknown route "blog"`,
		},
		{
			name: "unknown error code",
			yaml: "name: x\ndescription: d\nsteps:\n  - expect: { error: OOPS }\n",
			want: `unknown error code "OOPS"`,
		},
		{
			name: "posts in fetch mode",
			yaml: "name: x\ndescription: d\nmode: fetch\nsteps:\n  - expect: { posts: [] }\n",
			want: "posts needs mode store",
		},
		{
			name: "assertion without type",
			yaml: "name: x\ndescription: d\nsteps:\n  - navigate: /\nassertions:\n  - path: /\n",
			want: "assertions[0]: type is required",
		},
		{
			name: "unknown assertion",
			yaml: "name: x\ndescription: d\nsteps:\n  - navigate: /\nassertions:\n  - type: trace_length\n",
			want: `unknown assertion type "trace_length"`,
		},
		{
			name: "trace_contains needs one target",
			yaml: "name: x\ndescription: d\nsteps:\n  - navigate: /\nassertions:\n  - type: trace_contains\n",
			want: "exactly one of path or action",
		},
		{
			name: "trace_order needs paths",
			yaml: "name: x\ndescription: d\nsteps:\n  - navigate: /\nassertions:\n  - type: trace_order\n",
			want: "paths list is required",
		},
		{
			name: "negative count",
			yaml: "name: x\ndescription: d\nsteps:\n  - navigate: /\nassertions:\n  - type: trace_count\n    path: /\n    count: -1\n",
			want: "count must be non-negative",
		},
		{
			name: "final_state needs posts",
			yaml: "name: x\ndescription: d\nsteps:\n  - navigate: /\nassertions:\n  - type: final_state\n",
			want: "posts is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("b.yaml", "name: b\ndescription: d\nsteps:\n  - navigate: /\n")
	write("a.yml", "name: a\ndescription: d\nsteps:\n  - navigate: /\n")
	write("notes.txt", "ignored")

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a", scenarios[0].Name)
	assert.Equal(t, "b", scenarios[1].Name)
}

func TestLoadScenarios_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	body := []byte("name: same\ndescription: d\nsteps:\n  - navigate: /\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.yaml"), body, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.yaml"), body, 0o644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario name "same" already used`)
}

func TestLoadScenarios_NamesBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: x\n"), 0o644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}
