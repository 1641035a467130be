package mdt

import (
	"embed"
	"io"

	template "github.com/goliatone/go-template"
)

//go:embed templates/forms/*.html
var embeddedTemplates embed.FS

// Renderer describes the template renderer used for modal bodies.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// NewTemplateRenderer creates a go-template renderer backed by the embedded form templates.
func NewTemplateRenderer() (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(embeddedTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}
