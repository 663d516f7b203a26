package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestMarshalTrace_Canonical(t *testing.T) {
	result := NewResult()
	result.Trace = []TraceEvent{
		{Type: EventNavigation, Seq: 1, Session: "s", Path: "/", Route: "home"},
		{Type: EventAction, Seq: 1, ID: "a-1", Action: "DELETE_POST", Payload: "<1>"},
	}

	data, err := MarshalTrace("x", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"x","trace":[`+
			`{"path":"/","route":"home","seq":1,"session":"s","type":"navigation"},`+
			`{"action":"DELETE_POST","id":"a-1","payload":"<1>","seq":1,"type":"action"}]}`,
		string(data))
}

func TestMarshalTrace_Empty(t *testing.T) {
	data, err := MarshalTrace("empty", NewResult())
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"empty","trace":[]}`, string(data))
}
