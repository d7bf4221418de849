// Package main implements the pgerrgen CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/klapacz/pg-error-codes/catalog"
	"github.com/klapacz/pg-error-codes/internal/cli"
	"github.com/klapacz/pg-error-codes/internal/logging"
	"github.com/klapacz/pg-error-codes/internal/pipeline"
)

func main() {
	code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	logger := logging.New(logging.Options{
		Verbose: opts.Verbose,
		Format:  opts.LogFormat,
		Writer:  stderr,
	})

	pipe := pipeline.Pipeline{Env: pipeline.Environment{
		Logger: logger,
		Writer: pipeline.NewOSWriter(),
	}}
	summary, runErr := pipe.Run(ctx, pipeline.RunOptions{
		ConfigPath:     opts.ConfigPath,
		ConfigOptional: !opts.ConfigSet,
		Overrides:      opts.Overrides(),
		StrictConfig:   opts.StrictConfig,
		DryRun:         opts.DryRun || opts.Explain != "",
		Refresh:        opts.Refresh,
	})
	if runErr != nil {
		_, _ = fmt.Fprintln(stderr, runErr.Error())
		var writeErr *pipeline.WriteError
		if errors.As(runErr, &writeErr) {
			return 2
		}
		return 1
	}

	if opts.Explain != "" {
		return explain(stdout, stderr, summary.Catalog, opts.Explain)
	}

	if opts.DryRun {
		_, _ = stdout.Write(summary.File.Content)
	}
	return 0
}

// explain prints the record for code, given as a SQLSTATE or a constant name.
func explain(stdout, stderr io.Writer, cat *catalog.Catalog, code string) int {
	idx := catalog.NewIndex(cat)
	key := strings.ToUpper(strings.TrimSpace(code))
	entry, ok := idx.Lookup(key)
	if !ok {
		entry, ok = idx.Constant(key)
	}
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown error code %q\n", code)
		return 1
	}

	_, _ = fmt.Fprintf(stdout, "%s %s (%s)\n", entry.SQLState, entry.Constant, entry.Severity.Name())
	_, _ = fmt.Fprintf(stdout, "  condition: %s\n", entry.Code)
	_, _ = fmt.Fprintf(stdout, "  section:   %s\n", entry.Description)
	return 0
}
