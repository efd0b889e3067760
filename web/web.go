// Package web holds the browser frontend served at the site root.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templates embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.ParseFS(templates, "templates/*.html")
}
