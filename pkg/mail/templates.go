package mail

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

// Template names accepted by the Renderer.
const (
	TemplateSummary = "summary"
	TemplateError   = "error"
)

// Renderer turns a named template plus a value map into an HTML body. The
// orchestrator depends on this interface rather than the embedded templates
// so deployments (and tests) can substitute their own rendering.
type Renderer interface {
	Render(name string, data map[string]any) (string, error)
}

var (
	summaryTemplate = template.New(TemplateSummary).Funcs(sprig.HtmlFuncMap())
	errorTemplate   = template.New(TemplateError).Funcs(sprig.HtmlFuncMap())

	//go:embed templates/summary.html
	summaryTemplateRaw string
	//go:embed templates/error.html
	errorTemplateRaw string
)

func init() {
	if _, err := summaryTemplate.Parse(summaryTemplateRaw); err != nil {
		panic(err)
	}
	if _, err := errorTemplate.Parse(errorTemplateRaw); err != nil {
		panic(err)
	}
}

type templateRenderer struct{}

// NewTemplateRenderer returns the Renderer backed by the embedded templates.
func NewTemplateRenderer() Renderer {
	return templateRenderer{}
}

func (templateRenderer) Render(name string, data map[string]any) (string, error) {
	var t *template.Template
	switch name {
	case TemplateSummary:
		t = summaryTemplate
	case TemplateError:
		t = errorTemplate
	default:
		return "", fmt.Errorf("unknown mail template %q", name)
	}

	b := bytes.Buffer{}
	err := t.Execute(&b, data)
	return b.String(), err
}
