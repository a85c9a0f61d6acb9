package templates

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/masoncj/praisebot/internal/logging"
	"github.com/masoncj/praisebot/internal/models"
	"github.com/masoncj/praisebot/internal/raster"
)

// Metadata keys that are always present after extraction.
const (
	MetaTitle    = "title"
	MetaFilename = "filename"
	MetaMessage  = "message"
)

// Render is the markup produced by applying a Template. Metadata and plain
// text are derived on first use and cached for the life of the value.
type Render struct {
	OutputText string
	Template   *Template
	Praise     *models.Praise // nil when applied to a bare context

	once        sync.Once
	metadata    map[string]string
	plainText   string
	diagnostics []string
	err         error
}

func newRender(output string, tmpl *Template) *Render {
	return &Render{OutputText: output, Template: tmpl}
}

// ApplyPraise applies the template to the praise's context at now and keeps
// the praise on the resulting Render.
func (t *Template) ApplyPraise(p *models.Praise, now time.Time) (*Render, error) {
	render, err := t.Apply(p.Context(now))
	if err != nil {
		return nil, err
	}
	render.Praise = p
	return render, nil
}

// Metadata returns the extracted metadata. The map always holds non-empty
// title, filename and message entries plus any keys the template declared
// in <metadata> elements. The returned map is a copy.
func (r *Render) Metadata() (map[string]string, error) {
	r.once.Do(r.extract)
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[string]string, len(r.metadata))
	for key, value := range r.metadata {
		out[key] = value
	}
	return out, nil
}

// PlainText returns the rendered text content with whitespace collapsed.
func (r *Render) PlainText() (string, error) {
	r.once.Do(r.extract)
	return r.plainText, r.err
}

// Diagnostics lists the defaults that had to be synthesized.
func (r *Render) Diagnostics() []string {
	r.once.Do(r.extract)
	return append([]string(nil), r.diagnostics...)
}

// Title returns the title metadata, or "" when extraction failed.
func (r *Render) Title() string { return r.meta(MetaTitle) }

// Filename returns the filename metadata, or "" when extraction failed.
func (r *Render) Filename() string { return r.meta(MetaFilename) }

// Message returns the message metadata, or "" when extraction failed.
func (r *Render) Message() string { return r.meta(MetaMessage) }

func (r *Render) meta(key string) string {
	r.once.Do(r.extract)
	return r.metadata[key]
}

// PNG rasterizes the markup.
func (r *Render) PNG(ctx context.Context, conv raster.Converter) ([]byte, error) {
	return raster.Convert(ctx, conv, raster.FormatPNG, []byte(r.OutputText))
}

// PDF converts the markup to a PDF document.
func (r *Render) PDF(ctx context.Context, conv raster.Converter) ([]byte, error) {
	return raster.Convert(ctx, conv, raster.FormatPDF, []byte(r.OutputText))
}

func (r *Render) templateName() string {
	if r.Template == nil {
		return ""
	}
	return r.Template.Name
}

func (r *Render) extract() {
	logger := logging.Component("templates").With().Str("template", r.templateName()).Logger()

	root, err := parseMarkup(r.OutputText)
	if err != nil {
		r.err = &RenderParseError{Template: r.templateName(), Err: err}
		return
	}

	meta := make(map[string]string)
	for _, block := range findElements(root, "metadata") {
		for _, child := range block.children {
			if child.isElement() {
				meta[child.name] = strings.TrimSpace(innerText(child))
			}
		}
	}

	plain := collapseSpace(innerText(root))
	fallback := plain
	if fallback == "" {
		fallback = r.templateName()
	}
	if fallback == "" {
		fallback = "praise"
	}

	note := func(msg string) {
		r.diagnostics = append(r.diagnostics, msg)
		logger.Warn().Msg(msg)
	}

	if title := childElement(root, "title"); title != nil && collapseSpace(innerText(title)) != "" {
		meta[MetaTitle] = collapseSpace(innerText(title))
	} else if meta[MetaTitle] == "" {
		meta[MetaTitle] = fallback
		note("template output has no title; using its text content")
	}

	if meta[MetaFilename] == "" {
		meta[MetaFilename] = strings.ReplaceAll(uuid.NewString(), "-", "")
		note("template output has no filename metadata; generated one")
	}

	if meta[MetaMessage] == "" {
		meta[MetaMessage] = fallback
		note("template output has no message metadata; using its text content")
	}

	r.metadata = meta
	r.plainText = plain
}
