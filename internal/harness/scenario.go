package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/times/internal/engine"
	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/route"
)

// Scenario modes.
const (
	ModeStore = "store"
	ModeFetch = "fetch"
)

// Scenario is one scripted browsing session.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Mode selects where Home and Post get their posts. Default: store.
	Mode string `yaml:"mode,omitempty"`

	// Seed is the initial store content in store mode. Nil uses the
	// built-in posts; an explicit empty list starts with an empty store.
	Seed []PostFixture `yaml:"seed,omitempty"`

	// Remote is what the source serves in fetch mode.
	Remote []PostFixture `yaml:"remote,omitempty"`

	// RemoteError makes every source call fail with this message.
	RemoteError string `yaml:"remote_error,omitempty"`

	// Start is the first location. Default: "/".
	Start string `yaml:"start,omitempty"`

	Steps []Step `yaml:"steps"`

	// Assertions are checked against the trace and final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// PostFixture is a post as written in YAML.
type PostFixture struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

func (p PostFixture) post() ir.Post {
	return ir.Post{ID: p.ID, Title: p.Title, Body: p.Body}
}

func toPosts(fixtures []PostFixture) []ir.Post {
	posts := make([]ir.Post, len(fixtures))
	for i, f := range fixtures {
		posts[i] = f.post()
	}
	return posts
}

// Step performs at most one interaction and then checks Expect.
type Step struct {
	Navigate string `yaml:"navigate,omitempty"`
	Trigger  string `yaml:"trigger,omitempty"`
	// Wait advances the scheduler, e.g. "2000ms".
	Wait string `yaml:"wait,omitempty"`
	Back bool   `yaml:"back,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the session after a step. Unset fields are not checked.
type Expect struct {
	Location    string   `yaml:"location,omitempty"`
	Route       string   `yaml:"route,omitempty"`
	Contains    []string `yaml:"contains,omitempty"`
	NotContains []string `yaml:"not_contains,omitempty"`
	// Posts is the exact list of store post ids, in order.
	Posts []string `yaml:"posts,omitempty"`
	// Links is the exact list of post card links on the page, in order.
	Links []string `yaml:"links,omitempty"`
	// Error is the runtime error code the step must produce.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_state.
	Type string `yaml:"type"`

	// Path matches a navigation (trace_contains, trace_count).
	Path string `yaml:"path,omitempty"`

	// Action and Payload match a dispatched action (trace_contains,
	// trace_count). An empty payload matches any.
	Action  string `yaml:"action,omitempty"`
	Payload string `yaml:"payload,omitempty"`

	// Paths is the expected navigation order (trace_order).
	Paths []string `yaml:"paths,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Posts is the expected final list of post ids (final_state).
	Posts []string `yaml:"posts,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

var knownErrorCodes = []string{
	string(engine.ErrCodeUnhandledEvent),
	string(engine.ErrCodeSessionClosed),
	string(engine.ErrCodeRenderFailed),
}

var knownRoutes = []string{route.Home, route.About, route.Contact, route.Post}

// LoadScenario reads and validates a scenario file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file
// name. Errors name the offending file.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	slices.Sort(files)

	scenarios := make([]*Scenario, 0, len(files))
	seen := make(map[string]string)
	for _, f := range files {
		s, err := LoadScenario(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", f, s.Name, prev)
		}
		seen[s.Name] = f
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// mode returns the effective mode.
func (s *Scenario) mode() string {
	if s.Mode == "" {
		return ModeStore
	}
	return s.Mode
}

func (s *Scenario) start() string {
	if s.Start == "" {
		return "/"
	}
	return s.Start
}

// seedState returns the initial store state.
func (s *Scenario) seedState() ir.State {
	if s.Seed == nil {
		return ir.DefaultState()
	}
	return ir.State{Posts: toPosts(s.Seed)}
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}

	switch s.mode() {
	case ModeStore:
		if s.Remote != nil || s.RemoteError != "" {
			return errors.New("remote and remote_error need mode fetch")
		}
	case ModeFetch:
		if s.Seed != nil {
			return errors.New("seed needs mode store")
		}
	default:
		return fmt.Errorf("unknown mode %q", s.Mode)
	}

	if len(s.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}
	for i := range s.Steps {
		if err := validateStep(i, s, &s.Steps[i]); err != nil {
			return err
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, s, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s *Scenario, step *Step) error {
	actions := 0
	if step.Navigate != "" {
		actions++
	}
	if step.Trigger != "" {
		actions++
	}
	if step.Wait != "" {
		actions++
		d, err := time.ParseDuration(step.Wait)
		if err != nil {
			return fmt.Errorf("steps[%d]: wait: %w", index, err)
		}
		if d <= 0 {
			return fmt.Errorf("steps[%d]: wait must be positive", index)
		}
	}
	if step.Back {
		actions++
	}
	if actions > 1 {
		return fmt.Errorf("steps[%d]: only one of navigate, trigger, wait, back is allowed", index)
	}
	if actions == 0 && step.Expect == nil {
		return fmt.Errorf("steps[%d]: empty step", index)
	}

	if x := step.Expect; x != nil {
		if x.Route != "" && !slices.Contains(knownRoutes, x.Route) {
			return fmt.Errorf("steps[%d].expect: unknown route %q", index, x.Route)
		}
		if x.Error != "" && !slices.Contains(knownErrorCodes, x.Error) {
			return fmt.Errorf("steps[%d].expect: unknown error code %q", index, x.Error)
		}
		if x.Posts != nil && s.mode() != ModeStore {
			return fmt.Errorf("steps[%d].expect: posts needs mode store", index)
		}
	}
	return nil
}

func validateAssertion(index int, s *Scenario, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if (a.Path == "") == (a.Action == "") {
			return fmt.Errorf("assertions[%d]: exactly one of path or action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Paths) == 0 {
			return fmt.Errorf("assertions[%d]: paths list is required for trace_order", index)
		}
	case AssertTraceCount:
		if (a.Path == "") == (a.Action == "") {
			return fmt.Errorf("assertions[%d]: exactly one of path or action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if s.mode() != ModeStore {
			return fmt.Errorf("assertions[%d]: final_state needs mode store", index)
		}
		if a.Posts == nil {
			return fmt.Errorf("assertions[%d]: posts is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
