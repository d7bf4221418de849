// Package fetch retrieves the errcodes.txt catalog from a URL or a local file.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBranch is the PostgreSQL branch used when none is configured.
const DefaultBranch = "master"

// defaultMaxBytes bounds the catalog body; errcodes.txt is well under 100 KiB.
const defaultMaxBytes = 4 << 20

// SourceURL returns the raw errcodes.txt URL for a PostgreSQL branch.
func SourceURL(branch string) string {
	if branch == "" {
		branch = DefaultBranch
	}
	return fmt.Sprintf("https://github.com/postgres/postgres/raw/%s/src/backend/utils/errcodes.txt", branch)
}

// IsRemote reports whether source is fetched over HTTP.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetcher returns the raw catalog text for a source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// UpstreamError reports a non-success HTTP status from the catalog host.
type UpstreamError struct {
	URL        string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPOptions configures an HTTP fetcher.
type HTTPOptions struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// HTTP fetches catalogs with a GET request.
type HTTP struct {
	opts HTTPOptions
}

// NewHTTP returns an HTTP fetcher. A nil client selects http.DefaultClient.
func NewHTTP(opts HTTPOptions) *HTTP {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	return &HTTP{opts: opts}
}

// Fetch implements Fetcher.
func (h *HTTP) Fetch(ctx context.Context, source string) ([]byte, error) {
	if h.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if h.opts.UserAgent != "" {
		req.Header.Set("User-Agent", h.opts.UserAgent)
	}

	resp, err := h.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &UpstreamError{URL: source, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	if int64(len(body)) > h.opts.MaxBytes {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", source, h.opts.MaxBytes)
	}
	return body, nil
}

// File reads catalogs from disk. Sources may be plain paths or file:// URLs;
// relative paths resolve against BaseDir.
type File struct {
	BaseDir string
}

// Fetch implements Fetcher.
func (f File) Fetch(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := source
	if strings.HasPrefix(source, "file://") {
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		path = u.Path
	}
	if path == "" {
		return nil, errors.New("fetch: empty source path")
	}
	if !filepath.IsAbs(path) && f.BaseDir != "" {
		path = filepath.Join(f.BaseDir, path)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Router sends remote sources to Remote and everything else to Local.
type Router struct {
	Remote Fetcher
	Local  Fetcher
}

// Fetch implements Fetcher.
func (r Router) Fetch(ctx context.Context, source string) ([]byte, error) {
	if IsRemote(source) {
		if r.Remote == nil {
			return nil, fmt.Errorf("fetch %s: no remote fetcher configured", source)
		}
		return r.Remote.Fetch(ctx, source)
	}
	if r.Local == nil {
		return nil, fmt.Errorf("fetch %s: no local fetcher configured", source)
	}
	return r.Local.Fetch(ctx, source)
}

var (
	_ Fetcher = (*HTTP)(nil)
	_ Fetcher = File{}
	_ Fetcher = Router{}
	_ Fetcher = (*Cached)(nil)
)
