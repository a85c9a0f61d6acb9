package templates

import (
	"fmt"
	"strings"
)

// InvalidTemplateNameError rejects names that could escape a search path.
type InvalidTemplateNameError struct {
	Name string
}

func (e *InvalidTemplateNameError) Error() string {
	return fmt.Sprintf("invalid template name %q: must be non-empty and contain no path separators", e.Name)
}

// TemplateNotFoundError reports a name with no template on any search path.
// Available lists the template names that do exist.
type TemplateNotFoundError struct {
	Name      string
	Available []string
}

func (e *TemplateNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no such template %q; no templates available", e.Name)
	}
	return fmt.Sprintf("no such template %q; available templates: %s", e.Name, strings.Join(e.Available, ", "))
}

// TemplateSyntaxError reports template source that does not compile.
type TemplateSyntaxError struct {
	Name    string
	Path    string
	Message string
	Err     error
}

func (e *TemplateSyntaxError) Error() string {
	return fmt.Sprintf("compile template %q (%s): %s", e.Name, e.Path, e.Message)
}

func (e *TemplateSyntaxError) Unwrap() error {
	return e.Err
}

// TemplateExecError reports a failure while applying a compiled template.
type TemplateExecError struct {
	Name string
	Err  error
}

func (e *TemplateExecError) Error() string {
	return fmt.Sprintf("apply template %q: %v", e.Name, e.Err)
}

func (e *TemplateExecError) Unwrap() error {
	return e.Err
}

// RenderParseError reports template output that is not well-formed markup.
// The template source compiled; what it produced is broken.
type RenderParseError struct {
	Template string
	Err      error
}

func (e *RenderParseError) Error() string {
	return fmt.Sprintf("parse output of template %q: %v", e.Template, e.Err)
}

func (e *RenderParseError) Unwrap() error {
	return e.Err
}
