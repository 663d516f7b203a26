package view

import (
	"html/template"

	"github.com/roach88/times/internal/route"
)

type navLink struct {
	Href   string
	Label  string
	Active bool
}

// Navbar is the navigation shell rendered above every page. It is not
// selected by the route table, so it only knows the current location when
// it has been granted a router with route.WithRouter.
type Navbar struct{}

// Mount implements Component.
func (Navbar) Mount(props Props) View {
	return navbarView{router: props.Router}
}

type navbarView struct {
	router *route.Context
}

func (v navbarView) Render() (template.HTML, error) {
	active := func(pattern string) bool {
		return v.router != nil && v.router.IsActive(pattern)
	}
	return render("navbar.html", struct {
		Brand string
		Links []navLink
	}{
		Brand: Brand,
		Links: []navLink{
			// Home is a plain link and never carries the active class.
			{Href: "/", Label: "Home"},
			{Href: AboutPath, Label: "About", Active: active(AboutPath)},
			{Href: "/contact", Label: "Contact", Active: active("/contact")},
		},
	})
}
