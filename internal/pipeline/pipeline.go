// Package pipeline runs a praise command end to end: parse, resolve,
// locate the template, apply it and extract metadata.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/masoncj/praisebot/internal/logging"
	"github.com/masoncj/praisebot/internal/parse"
	"github.com/masoncj/praisebot/internal/praise"
	"github.com/masoncj/praisebot/internal/templates"
)

// Renderer turns praise commands into rendered templates. A Renderer holds
// no per-call state and may be shared between goroutines as long as its
// collaborators can.
type Renderer struct {
	Locator  templates.TemplateSource
	Resolver praise.Resolver
	Defaults map[string]string
	Now      func() time.Time

	logger *zerolog.Logger
}

// New creates a Renderer that stamps renders with the wall clock.
func New(locator templates.TemplateSource, resolver praise.Resolver, defaults map[string]string) *Renderer {
	logger := logging.Component("pipeline")
	return &Renderer{
		Locator:  locator,
		Resolver: resolver,
		Defaults: defaults,
		Now:      time.Now,
		logger:   &logger,
	}
}

// Render runs text through the pipeline. Any failure aborts the run and
// is returned unchanged so callers can inspect it with errors.As.
func (r *Renderer) Render(ctx context.Context, text string) (*templates.Render, error) {
	if r.Locator == nil {
		return nil, fmt.Errorf("template source is required")
	}
	logger := r.log()

	p, err := praise.ParseMessage(ctx, text, r.Resolver, r.Defaults)
	if err != nil {
		logFailure(logger, err, "praise command rejected")
		return nil, err
	}
	logger = logger.With().Str("template", p.TemplateName).Logger()

	tmpl, err := r.Locator.Locate(p.TemplateName)
	if err != nil {
		logFailure(logger, err, "template lookup failed")
		return nil, err
	}

	render, err := tmpl.ApplyPraise(p, r.now())
	if err != nil {
		logFailure(logger, err, "template apply failed")
		return nil, err
	}

	if _, err := render.Metadata(); err != nil {
		logFailure(logger, err, "template output unreadable")
		return nil, err
	}

	logger.Debug().
		Str("praise", p.Summary()).
		Str("title", render.Title()).
		Str("filename", render.Filename()).
		Msg("praise rendered")
	return render, nil
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Renderer) log() zerolog.Logger {
	if r.logger == nil {
		return logging.Component("pipeline")
	}
	return *r.logger
}

// logFailure logs user mistakes at info and template or system faults at
// error.
func logFailure(logger zerolog.Logger, err error, msg string) {
	var (
		parseErr    *parse.Error
		identityErr *praise.IdentityResolutionError
		nameErr     *templates.InvalidTemplateNameError
		notFoundErr *templates.TemplateNotFoundError
	)
	switch {
	case errors.As(err, &parseErr),
		errors.As(err, &identityErr),
		errors.As(err, &nameErr),
		errors.As(err, &notFoundErr):
		logger.Info().Err(err).Msg(msg)
	default:
		logger.Error().Err(err).Msg(msg)
	}
}
