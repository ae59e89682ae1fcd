// Package integrations holds the server-rendered pages embedded by signage
// screens.
package integrations

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(files, "templates/*.html")
}
