package frontend

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed assets/index.html
var indexHTML string

// IndexData carries the per-request values rendered into the index page.
type IndexData struct {
	ThemeColor   string
	ExtraModules []string
}

// RenderFunc renders the index document to its final HTML text.
type RenderFunc func(data IndexData) (string, error)

// IndexTemplate is the object produced by a TemplateFunc. Its Render
// field is the seam branding hooks wrap with a text post-processor.
type IndexTemplate struct {
	Render RenderFunc
}

// TemplateFunc produces the index template for the dashboard. The
// installed function is swappable at runtime; it must return a fresh
// IndexTemplate on every call so wrappers never leak between installs.
type TemplateFunc func() (*IndexTemplate, error)

// DefaultTemplateFunc parses the embedded index document. Parsing happens
// once; each call returns a new IndexTemplate around the shared parse.
func DefaultTemplateFunc() TemplateFunc {
	tpl, err := template.New("index.html").Parse(indexHTML)
	return func() (*IndexTemplate, error) {
		if err != nil {
			return nil, fmt.Errorf("parsing index template: %w", err)
		}
		return &IndexTemplate{
			Render: func(data IndexData) (string, error) {
				var sb strings.Builder
				if err := tpl.Execute(&sb, data); err != nil {
					return "", fmt.Errorf("rendering index: %w", err)
				}
				return sb.String(), nil
			},
		}, nil
	}
}
