// Package codegen selects the language-specific table renderer.
package codegen

import (
	"fmt"

	"github.com/klapacz/pg-error-codes/catalog"
	"github.com/klapacz/pg-error-codes/internal/codegen/golang"
	"github.com/klapacz/pg-error-codes/internal/codegen/typescript"
)

// Target identifies the language of the generated table.
type Target string

const (
	// TargetTypeScript emits a `pgErrors` const object and `PgError` key type.
	TargetTypeScript Target = "typescript"
	// TargetGo emits a `pgErrors` map keyed by a `PgError` string type.
	TargetGo Target = "go"
)

// ParseTarget validates a target name. The empty string selects TypeScript.
func ParseTarget(raw string) (Target, error) {
	switch Target(raw) {
	case TargetTypeScript, "":
		return TargetTypeScript, nil
	case TargetGo:
		return TargetGo, nil
	default:
		return "", fmt.Errorf("unsupported target: %s", raw)
	}
}

// Options tunes renderer output.
type Options struct {
	// Package names the Go package of the generated file.
	Package string
	// Source is the catalog location recorded in generated headers.
	Source string
}

// Renderer turns a parsed catalog into unformatted source text.
type Renderer interface {
	Render(cat *catalog.Catalog) ([]byte, error)
	Extension() string
}

// File is a rendered output destined for Path.
type File struct {
	Path    string
	Content []byte
}

// NewRenderer returns the renderer for target.
func NewRenderer(target Target, opts Options) (Renderer, error) {
	switch target {
	case TargetTypeScript, "":
		gen, err := typescript.NewGenerator()
		if err != nil {
			return nil, fmt.Errorf("create typescript generator: %w", err)
		}
		return gen, nil
	case TargetGo:
		gen, err := golang.NewGenerator(golang.Options{Package: opts.Package, Source: opts.Source})
		if err != nil {
			return nil, fmt.Errorf("create go generator: %w", err)
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("unsupported target: %s", target)
	}
}
