package pipeline

import (
	"context"
	"log/slog"

	"github.com/klapacz/pg-error-codes/catalog"
	"github.com/klapacz/pg-error-codes/internal/codegen"
)

// Hooks provides extension points in the pipeline execution.
// Each hook is called at a specific stage; returning an error aborts the run.
type Hooks struct {
	// AfterFetch receives the raw catalog text.
	AfterFetch func(ctx context.Context, text []byte) error

	// AfterParse receives the parsed catalog. It must not modify it.
	AfterParse func(ctx context.Context, cat *catalog.Catalog) error

	// AfterRender receives the formatted output file, including on dry runs.
	AfterRender func(ctx context.Context, file codegen.File) error

	// BeforeWrite is called before the output file is written.
	BeforeWrite func(ctx context.Context, file codegen.File) error
}

// Chain combines two Hooks, calling h's hooks first, then other's hooks.
// If a hook in h returns an error, other's hook is not called.
func (h Hooks) Chain(other Hooks) Hooks {
	return Hooks{
		AfterFetch:  chainHook(h.AfterFetch, other.AfterFetch),
		AfterParse:  chainHook(h.AfterParse, other.AfterParse),
		AfterRender: chainHook(h.AfterRender, other.AfterRender),
		BeforeWrite: chainHook(h.BeforeWrite, other.BeforeWrite),
	}
}

// chainHook chains two hooks of the same type.
func chainHook[T any](first, second func(context.Context, T) error) func(context.Context, T) error {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context, arg T) error {
		if err := first(ctx, arg); err != nil {
			return err
		}
		return second(ctx, arg)
	}
}

// logHooks reports stage progress at debug level.
func logHooks(logger *slog.Logger) Hooks {
	return Hooks{
		AfterFetch: func(_ context.Context, text []byte) error {
			logger.Debug("catalog fetched", "bytes", len(text))
			return nil
		},
		AfterParse: func(_ context.Context, cat *catalog.Catalog) error {
			logger.Debug("catalog parsed", "sections", len(cat.Sections), "records", cat.Len())
			return nil
		},
		AfterRender: func(_ context.Context, file codegen.File) error {
			logger.Debug("output rendered", "path", file.Path, "bytes", len(file.Content))
			return nil
		},
	}
}
