package templates

import (
	"embed"
	"io/fs"
)

// exportTemplates embeds the source code templates, one per output format:
//   - export/<format>.tmpl
//
//go:embed export
var exportTemplates embed.FS

// ExportFS returns the embedded filesystem rooted at the export directory.
func ExportFS() fs.FS {
	sub, err := fs.Sub(exportTemplates, "export")
	if err != nil {
		panic(err)
	}
	return sub
}
