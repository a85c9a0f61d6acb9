// Package templates locates, compiles and applies the SVG templates a praise
// is rendered with, and extracts metadata from the rendered markup.
package templates

import (
	"fmt"

	"github.com/aymerick/raymond"
)

// Extension is the file extension of template files.
const Extension = ".svg"

// Template is a compiled handlebars SVG template.
type Template struct {
	Name   string
	Path   string // file path, or "builtin:<file>"
	Source string

	compiled *raymond.Template
}

// Compile parses handlebars source into a Template. It touches no files.
func Compile(name, path, source string) (*Template, error) {
	compiled, err := raymond.Parse(source)
	if err != nil {
		return nil, &TemplateSyntaxError{
			Name:    name,
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}
	compiled.RegisterHelpers(helpers())

	return &Template{
		Name:     name,
		Path:     path,
		Source:   source,
		compiled: compiled,
	}, nil
}

// Apply executes the template against ctx. Undefined variables render as
// empty text.
func (t *Template) Apply(ctx map[string]any) (*Render, error) {
	if t == nil || t.compiled == nil {
		return nil, fmt.Errorf("template is required")
	}

	out, err := t.compiled.Exec(ctx)
	if err != nil {
		return nil, &TemplateExecError{Name: t.Name, Err: err}
	}
	return newRender(out, t), nil
}

func helpers() map[string]interface{} {
	return map[string]interface{}{
		"wrap": wrapHelper,
	}
}
