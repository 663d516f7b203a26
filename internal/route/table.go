package route

import (
	"net/url"
	"strings"
)

// Route names.
const (
	Home    = "home"
	About   = "about"
	Contact = "contact"
	Post    = "post"
)

// ParamPostID is the parameter captured by the post route.
const ParamPostID = "post_id"

// MatchKind selects how a Route compares its pattern with a path.
type MatchKind int

const (
	// MatchExact requires the normalized path to equal the pattern.
	MatchExact MatchKind = iota + 1
	// MatchPrefix matches the pattern and any deeper path below it.
	MatchPrefix
	// MatchParam captures the first segment under Param.
	MatchParam
)

// Route is one entry of a Table.
type Route struct {
	Name    string
	Pattern string
	Kind    MatchKind
	Param   string // only for MatchParam
}

// Match is the result of resolving a path.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Param returns a captured parameter, or "" when absent.
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Table is an ordered list of routes. The last route must accept every path
// for Resolve to be total; NewTable guarantees that.
type Table struct {
	routes []Route
}

// NewTable returns the application route table.
func NewTable() *Table {
	return &Table{routes: []Route{
		{Name: Home, Pattern: "/", Kind: MatchExact},
		{Name: About, Pattern: "/about", Kind: MatchPrefix},
		{Name: Contact, Pattern: "/contact", Kind: MatchPrefix},
		{Name: Post, Pattern: "/:" + ParamPostID, Kind: MatchParam, Param: ParamPostID},
	}}
}

// Routes returns a copy of the routes in priority order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Resolve selects exactly one route for path.
func (t *Table) Resolve(path string) Match {
	clean := Normalize(path)
	for _, r := range t.routes {
		if params, ok := r.match(clean); ok {
			return Match{Route: r, Path: clean, Params: params}
		}
	}
	// Unreachable with NewTable: "/" is exact-matched and every other path
	// has a first segment for the param route.
	home := t.routes[0]
	return Match{Route: home, Path: "/", Params: map[string]string{}}
}

func (r Route) match(path string) (map[string]string, bool) {
	switch r.Kind {
	case MatchExact:
		return map[string]string{}, strings.EqualFold(path, r.Pattern)
	case MatchPrefix:
		lower := strings.ToLower(path)
		if lower == r.Pattern || strings.HasPrefix(lower, r.Pattern+"/") {
			return map[string]string{}, true
		}
		return nil, false
	case MatchParam:
		segment := firstSegment(path)
		if segment == "" {
			return nil, false
		}
		if decoded, err := url.PathUnescape(segment); err == nil {
			segment = decoded
		}
		return map[string]string{r.Param: segment}, true
	default:
		return nil, false
	}
}

// Normalize strips query and fragment, ensures a leading slash, collapses
// repeated slashes and drops a trailing slash (except for the root).
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	parts := strings.Split(path, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return "/" + strings.Join(kept, "/")
}

func firstSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
