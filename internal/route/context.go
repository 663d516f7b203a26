package route

import "strings"

// Context is the navigation capability handed to a component: a history
// handle plus the parameters captured for the current location.
//
// Components selected by the Table receive a Context automatically.
// Components rendered outside the table (the navigation shell) have none
// until they are granted one with WithRouter.
type Context struct {
	Navigator Navigator
	Match     Match
}

// Navigate pushes path onto the history.
func (c *Context) Navigate(path string) {
	c.Navigator.Push(path)
}

// Param returns a captured route parameter.
func (c *Context) Param(name string) string {
	return c.Match.Param(name)
}

// Location returns the current path.
func (c *Context) Location() string {
	return c.Navigator.Location()
}

// IsActive reports whether the current location is pattern or lies below it.
// Like prefix routes, the comparison ignores case.
func (c *Context) IsActive(pattern string) bool {
	loc := strings.ToLower(Normalize(c.Location()))
	pattern = strings.ToLower(pattern)
	if pattern == "/" {
		return loc == "/"
	}
	return loc == pattern || strings.HasPrefix(loc, pattern+"/")
}

// WithRouter grants the navigation capability for the current location of
// nav. The table uses this same function when it hands a Context to the
// page it selected.
func WithRouter(nav Navigator, t *Table) *Context {
	return &Context{
		Navigator: nav,
		Match:     t.Resolve(nav.Location()),
	}
}
