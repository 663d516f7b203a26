package view

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// LogoPath is where the web layer serves the logo shown on each card.
const LogoPath = "/static/logo.svg"

// Brand is the site name shown in the navbar and the document title.
const Brand = "Advantech Times"

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Assets returns the static files served under /static/.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func render(name string, data any) (template.HTML, error) {
	return execute(templates.Lookup(name), data)
}

func execute(t *template.Template, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
