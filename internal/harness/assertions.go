package harness

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/roach88/times/internal/engine"
)

// cardLink matches the link of a post card on the home page.
var cardLink = regexp.MustCompile(`<a href="([^"]*)"><span class="card-title`)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, describe(event))
		}
	}
	return buf.String()
}

func describe(e TraceEvent) string {
	if e.Type == EventNavigation {
		return fmt.Sprintf("navigate %s (%s)", e.Path, e.Route)
	}
	return fmt.Sprintf("%s %q", e.Action, e.Payload)
}

func (a Assertion) matches(e TraceEvent) bool {
	if a.Path != "" {
		return e.Type == EventNavigation && e.Path == a.Path
	}
	return e.Type == EventAction && e.Action == a.Action &&
		(a.Payload == "" || e.Payload == a.Payload)
}

func (a Assertion) target() string {
	if a.Path != "" {
		return "navigation to " + a.Path
	}
	if a.Payload != "" {
		return fmt.Sprintf("action %s %q", a.Action, a.Payload)
	}
	return "action " + a.Action
}

func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if assertion.matches(event) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: assertion.target(),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that navigations to the paths happen in order.
// Other navigations may come in between.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, event := range trace {
		if next == len(assertion.Paths) {
			break
		}
		if event.Type == EventNavigation && event.Path == assertion.Paths[next] {
			next++
		}
	}
	if next == len(assertion.Paths) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("navigations in order: %v", assertion.Paths),
		Actual:   fmt.Sprintf("no navigation to %s after %v", assertion.Paths[next], assertion.Paths[:next]),
		Trace:    trace,
	}
}

func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if assertion.matches(event) {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.target()),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

func assertFinalState(result *Result, assertion Assertion) error {
	ids := result.State.PostIDs()
	if slices.Equal(ids, assertion.Posts) {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: fmt.Sprintf("posts %v", assertion.Posts),
		Actual:   fmt.Sprintf("posts %v", ids),
	}
}

// EvaluateAssertions checks every assertion and returns the failure
// messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertFinalState:
			err = assertFinalState(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

// checkExpect compares an observation with a step's expect clause.
func checkExpect(index int, x *Expect, obs observation) []string {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf("steps[%d]: ", index)+fmt.Sprintf(format, args...))
	}

	if x.Error != "" {
		if !engine.HasCode(obs.err, engine.RuntimeErrorCode(x.Error)) {
			fail("expected error %s, got %v", x.Error, obs.err)
		}
	} else if obs.err != nil {
		fail("unexpected error: %v", obs.err)
	}

	if x.Location != "" && obs.location != x.Location {
		fail("expected location %q, got %q", x.Location, obs.location)
	}
	if x.Route != "" && obs.route != x.Route {
		fail("expected route %q, got %q", x.Route, obs.route)
	}

	page := string(obs.html)
	for _, s := range x.Contains {
		if !strings.Contains(page, s) {
			fail("page does not contain %q", s)
		}
	}
	for _, s := range x.NotContains {
		if strings.Contains(page, s) {
			fail("page contains %q", s)
		}
	}

	if x.Posts != nil {
		if !obs.checkPosts {
			fail("posts can only be checked in store mode")
		} else if !slices.Equal(obs.posts, x.Posts) {
			fail("expected posts %v, got %v", x.Posts, obs.posts)
		}
	}
	if x.Links != nil {
		if links := cardLinks(page); !slices.Equal(links, x.Links) {
			fail("expected links %v, got %v", x.Links, links)
		}
	}
	return errs
}

// cardLinks returns the hrefs of the post cards on a rendered page.
func cardLinks(page string) []string {
	var links []string
	for _, m := range cardLink.FindAllStringSubmatch(page, -1) {
		links = append(links, m[1])
	}
	return links
}
