// Package typescript renders the error-code table as a TypeScript module.
package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/klapacz/pg-error-codes/catalog"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Generator produces the `pgErrors` const object and its `PgError` key type.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator parses the embedded templates.
func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("typescript").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// Render emits one annotated table entry per record in catalog order.
// Repeated constants are kept; the later one shadows the earlier at runtime.
func (g *Generator) Render(cat *catalog.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	data := map[string]any{"Entries": cat.Flatten()}
	if err := g.tmpl.ExecuteTemplate(&buf, "table.ts.tmpl", data); err != nil {
		return nil, fmt.Errorf("render table: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension is the file suffix of the rendered module.
func (g *Generator) Extension() string { return ".ts" }
