// Package format applies canonical styling to rendered source. Formatting
// never changes keys, values, comments or their order.
package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/tools/imports"
)

// Formatter restyles generated source text.
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// Go formats Go source with goimports.
type Go struct {
	// Filename is passed to goimports to resolve the package context.
	Filename string
}

// Format implements Formatter.
func (g Go) Format(ctx context.Context, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	formatted, err := imports.Process(g.Filename, src, nil)
	if err != nil {
		return nil, fmt.Errorf("goimports: %w", err)
	}
	return formatted, nil
}

// Command pipes source through an external formatter such as
// `prettier --parser babel-ts`, reading the result from its stdout.
type Command struct {
	Argv []string
}

// Format implements Formatter.
func (c Command) Format(ctx context.Context, src []byte) ([]byte, error) {
	if len(c.Argv) == 0 {
		return nil, errors.New("format: empty command")
	}
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...) //nolint:gosec // argv comes from the user's config
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", c.Argv[0], err)
		}
		return nil, fmt.Errorf("%s: %w: %s", c.Argv[0], err, msg)
	}
	return stdout.Bytes(), nil
}

var (
	_ Formatter = Go{}
	_ Formatter = Command{}
	_ Formatter = TypeScript{}
)
