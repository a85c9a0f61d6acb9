package templates

import (
	"os"
	"path/filepath"
	"strings"
)

// SearchPaths returns template search directories in precedence order.
// Extra directories (from configuration) come first.
func SearchPaths(projectDir string, extra ...string) []string {
	paths := make([]string, 0, len(extra)+3)
	for _, dir := range extra {
		if strings.TrimSpace(dir) != "" {
			paths = append(paths, dir)
		}
	}

	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".praisebot", "templates"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "praisebot", "templates"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "praisebot", "templates"))
	return paths
}
