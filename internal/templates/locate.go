package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Locator finds templates by name on an ordered list of directories.
// Nothing is cached; every call reads the filesystem again.
type Locator struct {
	// Paths are searched in order. Missing directories are skipped.
	Paths []string

	// Builtin, when set, is searched after Paths.
	Builtin fs.FS
}

// NewLocator creates a locator over paths with an optional builtin fallback.
func NewLocator(paths []string, builtin fs.FS) *Locator {
	return &Locator{Paths: paths, Builtin: builtin}
}

// ValidateName rejects names that are empty or could address another
// directory.
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\\x00") || strings.ContainsRune(name, os.PathSeparator) {
		return &InvalidTemplateNameError{Name: name}
	}
	return nil
}

// Locate returns the first template called name, compiled.
func (l *Locator) Locate(name string) (*Template, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	fileName := name + Extension
	for _, dir := range l.existingDirs() {
		path := filepath.Join(dir, fileName)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read template %s: %w", path, err)
		}
		return Compile(name, path, string(data))
	}

	if l.Builtin != nil {
		data, err := fs.ReadFile(l.Builtin, fileName)
		if err == nil {
			return Compile(name, "builtin:"+fileName, string(data))
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read builtin template %s: %w", fileName, err)
		}
	}

	available, err := l.List()
	if err != nil {
		return nil, err
	}
	return nil, &TemplateNotFoundError{Name: name, Available: available}
}

// List returns the sorted, de-duplicated names of all templates on the
// search paths and in the builtin set.
func (l *Locator) List() ([]string, error) {
	seen := make(map[string]struct{})

	for _, dir := range l.existingDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read templates dir %s: %w", dir, err)
		}
		collectNames(entries, seen)
	}

	if l.Builtin != nil {
		entries, err := fs.ReadDir(l.Builtin, ".")
		if err != nil {
			return nil, fmt.Errorf("read builtin templates: %w", err)
		}
		collectNames(entries, seen)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *Locator) existingDirs() []string {
	dirs := make([]string, 0, len(l.Paths))
	for _, dir := range l.Paths {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

func collectNames(entries []fs.DirEntry, seen map[string]struct{}) {
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, Extension) {
			continue
		}
		seen[strings.TrimSuffix(name, Extension)] = struct{}{}
	}
}
