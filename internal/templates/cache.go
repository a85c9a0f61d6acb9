package templates

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/masoncj/praisebot/internal/logging"
)

// TemplateSource resolves a template name to a compiled template.
// Both *Locator and *Cache satisfy it.
type TemplateSource interface {
	Locate(name string) (*Template, error)
	List() ([]string, error)
}

// Cache memoizes compiled templates from a Locator. Concurrent lookups of
// the same name share one read and compile. Failed lookups are not cached.
type Cache struct {
	locator *Locator

	mu      sync.RWMutex
	entries map[string]*Template
	group   singleflight.Group
}

// NewCache wraps locator.
func NewCache(locator *Locator) *Cache {
	return &Cache{
		locator: locator,
		entries: make(map[string]*Template),
	}
}

// Locate returns the cached template for name, compiling it on first use.
func (c *Cache) Locate(name string) (*Template, error) {
	c.mu.RLock()
	tmpl, ok := c.entries[name]
	c.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	v, err, _ := c.group.Do(name, func() (interface{}, error) {
		tmpl, err := c.locator.Locate(name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[name] = tmpl
		c.mu.Unlock()
		return tmpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Template), nil
}

// List delegates to the locator.
func (c *Cache) List() ([]string, error) {
	return c.locator.List()
}

// Len reports how many compiled templates are held.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate drops every cached template.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]*Template)
	c.mu.Unlock()
}

// Watch invalidates the cache whenever a template file changes in one of
// the locator's directories. It blocks until ctx is done.
func (c *Cache) Watch(ctx context.Context) error {
	logger := logging.Component("templates")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create template watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range c.locator.existingDirs() {
		if err := watcher.Add(dir); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("cannot watch template dir")
			continue
		}
		logger.Debug().Str("dir", dir).Msg("watching template dir")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, Extension) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Info().Str("file", event.Name).Str("op", event.Op.String()).Msg("template changed; clearing cache")
			c.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("template watcher error")
		}
	}
}
