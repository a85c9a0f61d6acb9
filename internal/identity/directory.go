// Package identity resolves chat directory identifiers into identities.
package identity

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/masoncj/praisebot/internal/models"
	"github.com/masoncj/praisebot/internal/praise"
)

// Directory is a static chat directory, usually loaded from YAML:
//
//	users:
//	  U024BE7LH:
//	    name: cmason
//	    full_name: Chris Mason
//	channels:
//	  C01:
//	    name: general
//	    full_name: General
type Directory struct {
	Users    map[string]models.Identity `yaml:"users"`
	Channels map[string]models.Identity `yaml:"channels"`
}

var _ praise.Resolver = (*Directory)(nil)

// LoadDirectory reads a directory file.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", path, err)
	}
	dir, err := ParseDirectory(data)
	if err != nil {
		return nil, fmt.Errorf("parse directory %s: %w", path, err)
	}
	return dir, nil
}

// ParseDirectory decodes YAML directory data. Entries without an explicit
// id take their map key.
func ParseDirectory(data []byte) (*Directory, error) {
	var dir Directory
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, err
	}
	if err := normalize(dir.Users); err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	if err := normalize(dir.Channels); err != nil {
		return nil, fmt.Errorf("channels: %w", err)
	}
	return &dir, nil
}

func normalize(entries map[string]models.Identity) error {
	for key, ident := range entries {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("empty id")
		}
		if ident.ID == "" {
			ident.ID = key
		}
		if ident.DisplayName == "" {
			return fmt.Errorf("%s: name is required", key)
		}
		if ident.FullName == "" {
			ident.FullName = ident.DisplayName
		}
		entries[key] = ident
	}
	return nil
}

// ResolveUser looks up a user id.
func (d *Directory) ResolveUser(ctx context.Context, id string) (models.Identity, error) {
	return lookup(ctx, d.Users, "user", id)
}

// ResolveChannel looks up a channel id.
func (d *Directory) ResolveChannel(ctx context.Context, id string) (models.Identity, error) {
	return lookup(ctx, d.Channels, "channel", id)
}

func lookup(ctx context.Context, entries map[string]models.Identity, kind, id string) (models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return models.Identity{}, err
	}
	ident, ok := entries[id]
	if !ok {
		return models.Identity{}, fmt.Errorf("%s %s: %w", kind, id, praise.ErrUnknownIdentity)
	}
	return ident, nil
}
