package view

import (
	"html/template"
	"math"
)

// Document is a full page: the shell, the routed outlet and an optional
// timed refresh.
type Document struct {
	Title   string
	Nav     template.HTML
	Outlet  template.HTML
	Refresh *Refresh
}

// Refresh is a client-side redirect emitted as a meta refresh.
type Refresh struct {
	Seconds int
	URL     string
}

// RefreshFor returns the refresh requested by v, if any.
func RefreshFor(v View) *Refresh {
	r, ok := v.(Refresher)
	if !ok {
		return nil
	}
	to, after, ok := r.Refresh()
	if !ok {
		return nil
	}
	return &Refresh{Seconds: int(math.Ceil(after.Seconds())), URL: to}
}

// Layout renders doc as an HTML document.
func Layout(doc Document) (template.HTML, error) {
	if doc.Title == "" {
		doc.Title = Brand
	}
	return render("layout.html", doc)
}
