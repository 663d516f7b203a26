package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed content/*.md
var contentFS embed.FS

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
)

// Markdown converts Markdown source to HTML. Raw HTML in the source is
// omitted.
func Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func loadCopy(name string) (template.HTML, error) {
	src, err := contentFS.ReadFile("content/" + name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return Markdown(src)
}
