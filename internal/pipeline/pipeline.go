// Package pipeline orchestrates the entire code generation process.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klapacz/pg-error-codes/catalog"
	"github.com/klapacz/pg-error-codes/internal/cache"
	"github.com/klapacz/pg-error-codes/internal/codegen"
	"github.com/klapacz/pg-error-codes/internal/codegen/format"
	"github.com/klapacz/pg-error-codes/internal/config"
	"github.com/klapacz/pg-error-codes/internal/fetch"
	"github.com/klapacz/pg-error-codes/internal/logging"
)

// Environment captures external dependencies used by the pipeline. Nil
// fields are derived from the loaded configuration.
type Environment struct {
	Logger    *slog.Logger
	Fetcher   fetch.Fetcher
	Formatter format.Formatter
	Writer    Writer
	Hooks     Hooks
}

// Writer writes generated files to persistent storage.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// Pipeline runs fetch, parse, render, format and write in sequence.
type Pipeline struct {
	Env Environment
}

// Summary describes the outcome of a run.
type Summary struct {
	Plan     config.JobPlan
	Catalog  *catalog.Catalog
	File     codegen.File
	Written  bool
	Warnings []string
}

// RunOptions configures a pipeline execution.
type RunOptions struct {
	ConfigPath string
	// ConfigOptional allows ConfigPath to be missing, falling back to defaults.
	ConfigOptional bool
	Overrides      config.Overrides
	StrictConfig   bool
	DryRun         bool
	// Refresh bypasses the catalog cache.
	Refresh bool
}

// ConfigError wraps failures loading the configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FetchError wraps failures retrieving the catalog.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError wraps a malformed catalog. Err is a *catalog.ShapeError or a
// *catalog.OrderingError.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatError wraps failures of the formatter.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// WriteError wraps failures encountered while writing generated files.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewOSWriter returns a Writer that performs atomic writes on the local filesystem.
func NewOSWriter() Writer {
	return &osWriter{perm: 0o644}
}

type osWriter struct {
	perm fs.FileMode
}

func (w *osWriter) WriteFile(path string, data []byte) error {
	if path == "" {
		return errors.New("pipeline: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".pgerrgen-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
		_ = tmp.Close()
	}()
	if w.perm != 0 {
		if err := tmp.Chmod(w.perm); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

// Run executes the pipeline according to the provided options. Any failure
// aborts the run before the output file is touched.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	var summary Summary

	logger := p.Env.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hooks := logHooks(logger).Chain(p.Env.Hooks)

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultPath
	}
	absConfigPath, err := filepath.Abs(configPath)
	if err != nil {
		return summary, &ConfigError{Path: configPath, Err: fmt.Errorf("resolve config path: %w", err)}
	}

	loadResult, err := config.Load(absConfigPath, config.LoadOptions{
		Strict:    opts.StrictConfig,
		Optional:  opts.ConfigOptional,
		Overrides: opts.Overrides,
	})
	if err != nil {
		return summary, &ConfigError{Path: absConfigPath, Err: err}
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn("configuration warning", "detail", warning)
	}
	summary.Warnings = loadResult.Warnings
	plan := loadResult.Plan
	summary.Plan = plan

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	fetcher := p.Env.Fetcher
	if fetcher == nil {
		fetcher, err = defaultFetcher(plan, opts.Refresh, logger)
		if err != nil {
			return summary, &FetchError{Source: plan.Source, Err: err}
		}
	}

	logger.Debug("fetching catalog", "source", plan.Source)
	text, err := fetcher.Fetch(ctx, plan.Source)
	if err != nil {
		return summary, &FetchError{Source: plan.Source, Err: err}
	}
	if hooks.AfterFetch != nil {
		if err := hooks.AfterFetch(ctx, text); err != nil {
			return summary, err
		}
	}

	cat, err := catalog.Parse(text)
	if err != nil {
		return summary, &ParseError{Source: plan.Source, Err: err}
	}
	summary.Catalog = cat
	if hooks.AfterParse != nil {
		if err := hooks.AfterParse(ctx, cat); err != nil {
			return summary, err
		}
	}

	renderer, err := codegen.NewRenderer(plan.Target, codegen.Options{Package: plan.Package, Source: plan.Source})
	if err != nil {
		return summary, fmt.Errorf("code generation: %w", err)
	}
	if ext := filepath.Ext(plan.Out); ext != renderer.Extension() {
		logger.Warn("output extension does not match target", "path", plan.Out, "target", plan.Target, "want", renderer.Extension())
	}
	unformatted, err := renderer.Render(cat)
	if err != nil {
		return summary, fmt.Errorf("code generation: %w", err)
	}

	formatter := p.Env.Formatter
	if formatter == nil {
		formatter = defaultFormatter(plan)
	}
	content, err := formatter.Format(ctx, unformatted)
	if err != nil {
		return summary, &FormatError{Err: err}
	}

	file := codegen.File{Path: plan.Out, Content: content}
	summary.File = file
	if hooks.AfterRender != nil {
		if err := hooks.AfterRender(ctx, file); err != nil {
			return summary, err
		}
	}

	if opts.DryRun {
		return summary, nil
	}

	if hooks.BeforeWrite != nil {
		if err := hooks.BeforeWrite(ctx, file); err != nil {
			return summary, err
		}
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	writer := p.Env.Writer
	if writer == nil {
		writer = NewOSWriter()
	}
	// Only the filesystem writer targets plan.Out on disk; any other writer
	// always receives the file.
	if _, onDisk := writer.(*osWriter); onDisk {
		same, cmpErr := fileMatches(file.Path, file.Content)
		if cmpErr != nil {
			return summary, &WriteError{Path: file.Path, Err: cmpErr}
		}
		if same {
			logger.Info("output unchanged", "path", file.Path, "records", cat.Len())
			return summary, nil
		}
	}
	if err := writer.WriteFile(file.Path, file.Content); err != nil {
		return summary, &WriteError{Path: file.Path, Err: err}
	}
	summary.Written = true
	logger.Info("code generated", "path", file.Path, "records", cat.Len())
	return summary, nil
}

func defaultFetcher(plan config.JobPlan, refresh bool, logger *slog.Logger) (fetch.Fetcher, error) {
	var fetcher fetch.Fetcher = fetch.Router{
		Remote: fetch.NewHTTP(fetch.HTTPOptions{Timeout: plan.Timeout, UserAgent: plan.UserAgent}),
		Local:  fetch.File{BaseDir: plan.BaseDir},
	}
	if plan.CacheDir == "" {
		return fetcher, nil
	}
	fc, err := cache.NewFileCache(plan.CacheDir)
	if err != nil {
		return nil, err
	}
	return &fetch.Cached{
		Next:    fetcher,
		Cache:   fc,
		TTL:     plan.CacheTTL,
		Refresh: refresh,
		Logger:  logging.NewSlogAdapter(logger),
	}, nil
}

func defaultFormatter(plan config.JobPlan) format.Formatter {
	if len(plan.FormatCommand) > 0 {
		return format.Command{Argv: plan.FormatCommand}
	}
	if plan.Target == codegen.TargetGo {
		return format.Go{Filename: plan.Out}
	}
	return format.TypeScript{}
}

func fileMatches(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(existing, content), nil
}
