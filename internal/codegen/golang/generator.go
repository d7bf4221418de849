// Package golang renders the error-code table as a Go source file.
package golang

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/klapacz/pg-error-codes/catalog"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Options configures the emitted Go file.
type Options struct {
	Package string
	// Source is recorded in the generated header when set.
	Source string
}

// Generator produces a `pgErrors` map keyed by the PgError string type.
type Generator struct {
	opts Options
	tmpl *template.Template
}

// NewGenerator parses the embedded templates.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.Package == "" {
		opts.Package = "pgerrors"
	}
	tmpl, err := template.New("golang").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Generator{opts: opts, tmpl: tmpl}, nil
}

// Render emits the table in catalog order. A map literal cannot repeat a
// key, so only the last occurrence of a constant is kept, at its own
// position.
func (g *Generator) Render(cat *catalog.Catalog) ([]byte, error) {
	data := map[string]any{
		"Package": g.opts.Package,
		"Source":  g.opts.Source,
		"Entries": lastOccurrences(cat.Flatten()),
	}
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "table.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("render table: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension is the file suffix of the rendered source.
func (g *Generator) Extension() string { return ".go" }

func lastOccurrences(entries []catalog.Entry) []catalog.Entry {
	last := make(map[string]int, len(entries))
	for i, entry := range entries {
		last[entry.Constant] = i
	}
	kept := make([]catalog.Entry, 0, len(last))
	for i, entry := range entries {
		if last[entry.Constant] == i {
			kept = append(kept, entry)
		}
	}
	return kept
}
