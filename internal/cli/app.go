package cli

import (
	"fmt"
	"os"

	"github.com/masoncj/praisebot/internal/config"
	"github.com/masoncj/praisebot/internal/identity"
	"github.com/masoncj/praisebot/internal/pipeline"
	"github.com/masoncj/praisebot/internal/praise"
	"github.com/masoncj/praisebot/internal/raster"
	"github.com/masoncj/praisebot/internal/templates"
)

// app wires the configured collaborators for one command run.
type app struct {
	cfg       *config.Config
	templates *templates.Cache
	resolver  praise.Resolver
	renderer  *pipeline.Renderer
	converter raster.Converter
}

func newApp(cfg *config.Config) (*app, error) {
	projectDir, err := os.Getwd()
	if err != nil {
		projectDir = ""
	}

	locator := templates.NewLocator(templates.SearchPaths(projectDir, cfg.Templates.Paths...), nil)
	if cfg.Templates.Builtin {
		locator.Builtin = templates.BuiltinTemplates()
	}
	cache := templates.NewCache(locator)

	resolver, err := newResolver(cfg.Directory)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		templates: cache,
		resolver:  resolver,
		renderer:  pipeline.New(cache, resolver, cfg.Render.Defaults),
		converter: raster.NewCommandConverter(cfg.Raster.Command, nil),
	}, nil
}

func newResolver(cfg config.DirectoryConfig) (praise.Resolver, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	dir, err := identity.LoadDirectory(cfg.Path)
	if err != nil {
		return nil, &PreflightError{
			Message:  fmt.Sprintf("cannot load identity directory: %v", err),
			Hint:     "check directory.path in your config or the --directory flag",
			NextStep: "praisebot --directory ./directory.yaml parse '<@U123> thank <@U456>'",
		}
	}
	cached, err := identity.NewCachedResolver(dir, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}
