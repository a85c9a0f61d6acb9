package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/masoncj/praisebot/internal/config"
	"github.com/masoncj/praisebot/internal/parse"
	"github.com/masoncj/praisebot/internal/praise"
	"github.com/masoncj/praisebot/internal/raster"
	"github.com/masoncj/praisebot/internal/templates"
)

// Exit codes.
const (
	exitFailure   = 1
	exitUsage     = 2
	exitTemplate  = 3
	exitConverter = 4
)

// PreflightError is a problem the user can fix before running again.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		b.WriteString("\nhint: ")
		b.WriteString(e.Hint)
	}
	if e.NextStep != "" {
		b.WriteString("\ntry: ")
		b.WriteString(e.NextStep)
	}
	return b.String()
}

func formatError(err error) string {
	var (
		parseErr    *parse.Error
		identityErr *praise.IdentityResolutionError
		notFoundErr *templates.TemplateNotFoundError
		syntaxErr   *templates.TemplateSyntaxError
	)
	style := defaultStyles()

	switch {
	case errors.As(err, &parseErr):
		return style.Error.Render("not a praise command: ") + parseErr.Error() + "\n" + caretLine(parseErr)
	case errors.As(err, &identityErr):
		return style.Error.Render("unknown reference: ") + err.Error() +
			"\nhint: add it to the identity directory (--directory)"
	case errors.As(err, &notFoundErr):
		return style.Error.Render("unknown template: ") + err.Error()
	case errors.As(err, &syntaxErr):
		return style.Error.Render("broken template: ") + fmt.Sprintf("%s (%s): %s", syntaxErr.Name, syntaxErr.Path, syntaxErr.Message)
	default:
		return style.Error.Render("error: ") + err.Error()
	}
}

// caretLine points at the offending offset on the first line of input.
func caretLine(err *parse.Error) string {
	line := err.Input
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	offset := err.Offset
	if offset > len(line) {
		return "  " + line
	}
	pad := len([]rune(line[:offset]))
	return "  " + line + "\n  " + strings.Repeat(" ", pad) + "^"
}

func exitCode(err error) int {
	var (
		parseErr    *parse.Error
		identityErr *praise.IdentityResolutionError
		nameErr     *templates.InvalidTemplateNameError
		notFoundErr *templates.TemplateNotFoundError
		syntaxErr   *templates.TemplateSyntaxError
		execErr     *templates.TemplateExecError
		renderErr   *templates.RenderParseError
		rasterErr   *raster.RasterConversionError
		configErr   *config.ValidationError
		preflight   *PreflightError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &identityErr),
		errors.As(err, &nameErr), errors.As(err, &notFoundErr),
		errors.As(err, &configErr), errors.As(err, &preflight):
		return exitUsage
	case errors.As(err, &syntaxErr), errors.As(err, &execErr), errors.As(err, &renderErr):
		return exitTemplate
	case errors.As(err, &rasterErr):
		return exitConverter
	default:
		return exitFailure
	}
}
