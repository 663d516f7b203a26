package harness

import "github.com/roach88/times/internal/ir"

// Trace event types.
const (
	EventNavigation = "navigation"
	EventAction     = "action"
)

// TraceEvent is one navigation or dispatched action.
type TraceEvent struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`

	// Navigation fields.
	Session string `json:"session,omitempty"`
	Path    string `json:"path,omitempty"`
	Route   string `json:"route,omitempty"`

	// Action fields.
	ID      string `json:"id,omitempty"`
	Action  string `json:"action,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds navigations and actions in the order they happened.
	Trace []TraceEvent `json:"trace"`

	Errors []string `json:"errors,omitempty"`

	// Location is where the session ended up.
	Location string `json:"location"`

	// State is the final store state. Zero in fetch mode.
	State ir.State `json:"state"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddNavigationTrace appends a navigation.
func (r *Result) AddNavigationTrace(n ir.Navigation) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:    EventNavigation,
		Seq:     n.Seq,
		Session: n.Session,
		Path:    n.Path,
		Route:   n.Route,
	})
}

// AddActionTrace appends a dispatched action.
func (r *Result) AddActionTrace(a ir.Action) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:    EventAction,
		Seq:     a.Seq,
		ID:      a.ID,
		Action:  string(a.Type),
		Payload: a.Payload,
	})
}
