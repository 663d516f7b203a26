package view

import (
	"html/template"
	"time"
)

// AboutPath is where Contact sends the visitor after its delay.
const AboutPath = "/about"

type pageData struct {
	Title string
	Body  template.HTML
}

func staticPage(title string, body template.HTML) Component {
	return Static(func(Props) (template.HTML, error) {
		return render("page.html", pageData{Title: title, Body: body})
	})
}

// contactPage shows the contact copy and redirects to About after delay.
type contactPage struct {
	body  template.HTML
	delay time.Duration
}

func (c *contactPage) Mount(props Props) View {
	if props.Router != nil {
		props.Effects.After(c.delay, func() {
			props.Router.Navigate(AboutPath)
		})
	}
	return &contactView{body: c.body, delay: c.delay}
}

type contactView struct {
	body  template.HTML
	delay time.Duration
}

func (v *contactView) Render() (template.HTML, error) {
	return render("page.html", pageData{Title: "Contact", Body: v.body})
}

func (v *contactView) Refresh() (string, time.Duration, bool) {
	return AboutPath, v.delay, true
}
