package templates

import (
	"embed"
	"io/fs"
)

//go:embed builtin/*.svg
var builtinFS embed.FS

// BuiltinTemplates returns the templates bundled with praisebot, rooted so
// that file names are at the top level.
func BuiltinTemplates() fs.FS {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		// fs.Sub only fails for invalid paths; "builtin" is valid.
		panic(err)
	}
	return sub
}
