// Package config loads and validates the pgerrgen configuration.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/klapacz/pg-error-codes/internal/codegen"
	"github.com/klapacz/pg-error-codes/internal/fetch"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "pgerrgen.toml"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "pgerrgen"
	defaultPackage   = "pgerrors"
	defaultTSOut     = "src/index.ts"
	defaultGoFile    = "errors.gen.go"
)

// FetchConfig captures how the catalog is downloaded.
type FetchConfig struct {
	Timeout   string `toml:"timeout" yaml:"timeout"`
	UserAgent string `toml:"user_agent" yaml:"user_agent"`
	CacheDir  string `toml:"cache_dir" yaml:"cache_dir"`
	CacheTTL  string `toml:"cache_ttl" yaml:"cache_ttl"`
}

// FormatConfig selects an external formatter instead of the built-in one.
type FormatConfig struct {
	Command []string `toml:"command" yaml:"command"`
}

// Config mirrors the expected pgerrgen configuration schema.
type Config struct {
	Source  string       `toml:"source" yaml:"source"`
	Branch  string       `toml:"branch" yaml:"branch"`
	Out     string       `toml:"out" yaml:"out"`
	Target  string       `toml:"target" yaml:"target"`
	Package string       `toml:"package" yaml:"package"`
	Fetch   FetchConfig  `toml:"fetch" yaml:"fetch"`
	Format  FormatConfig `toml:"format" yaml:"format"`
}

// Overrides replace configuration values; empty fields are ignored.
type Overrides struct {
	Source  string
	Branch  string
	Out     string
	Target  string
	Package string
}

// JobPlan is the fully-resolved configuration used by downstream stages.
type JobPlan struct {
	// Source is a URL or an absolute file path.
	Source        string
	Out           string
	Target        codegen.Target
	Package       string
	Timeout       time.Duration
	UserAgent     string
	CacheDir      string
	CacheTTL      time.Duration
	FormatCommand []string
	BaseDir       string
}

// LoadOptions tunes config loading behavior.
type LoadOptions struct {
	Strict bool
	// Optional falls back to defaults when the file does not exist.
	Optional  bool
	Overrides Overrides
}

// Result wraps a loaded job plan alongside any non-fatal warnings.
type Result struct {
	Plan     JobPlan
	Warnings []string
}

// Load reads, validates, and resolves a pgerrgen configuration file. Files
// ending in .yaml or .yml are decoded as YAML, everything else as TOML.
func Load(path string, opts LoadOptions) (Result, error) {
	var res Result
	var cfg Config

	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := decode(path, data, &cfg); err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
		warnings, err := unknownKeyWarnings(path, data)
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
		if len(warnings) > 0 && opts.Strict {
			return res, errors.New(strings.Join(warnings, "; "))
		}
		res.Warnings = warnings
	case opts.Optional && errors.Is(err, fs.ErrNotExist):
	default:
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	applyOverrides(&cfg, opts.Overrides)

	plan, err := resolve(path, cfg)
	if err != nil {
		return res, err
	}
	res.Plan = plan
	return res, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, v any) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return toml.Unmarshal(data, v)
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.Source != "" {
		cfg.Source = o.Source
	}
	if o.Branch != "" {
		cfg.Branch = o.Branch
		// An explicit branch wins over a configured source.
		if o.Source == "" {
			cfg.Source = ""
		}
	}
	if o.Out != "" {
		cfg.Out = o.Out
	}
	if o.Target != "" {
		cfg.Target = o.Target
	}
	if o.Package != "" {
		cfg.Package = o.Package
	}
}

func resolve(path string, cfg Config) (JobPlan, error) {
	baseDir := filepath.Dir(path)

	target, err := codegen.ParseTarget(cfg.Target)
	if err != nil {
		return JobPlan{}, fmt.Errorf("%s: %w", path, err)
	}

	pkg := cfg.Package
	if pkg == "" {
		pkg = defaultPackage
	}
	if target == codegen.TargetGo {
		if err := validatePackage(path, pkg); err != nil {
			return JobPlan{}, err
		}
	}

	out := cfg.Out
	if out == "" {
		out = defaultTSOut
		if target == codegen.TargetGo {
			out = filepath.Join(pkg, defaultGoFile)
		}
	}
	out, err = resolveOut(path, out)
	if err != nil {
		return JobPlan{}, err
	}

	timeout, err := parseDuration(path, "fetch.timeout", cfg.Fetch.Timeout, defaultTimeout)
	if err != nil {
		return JobPlan{}, err
	}
	ttl, err := parseDuration(path, "fetch.cache_ttl", cfg.Fetch.CacheTTL, fetch.DefaultCacheTTL)
	if err != nil {
		return JobPlan{}, err
	}

	userAgent := cfg.Fetch.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	cacheDir := cfg.Fetch.CacheDir
	if cacheDir != "" && !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(baseDir, cacheDir)
	}

	return JobPlan{
		Source:        resolveSource(baseDir, cfg.Source, cfg.Branch),
		Out:           out,
		Target:        target,
		Package:       pkg,
		Timeout:       timeout,
		UserAgent:     userAgent,
		CacheDir:      cacheDir,
		CacheTTL:      ttl,
		FormatCommand: slices.Clone(cfg.Format.Command),
		BaseDir:       baseDir,
	}, nil
}

func resolveSource(baseDir, source, branch string) string {
	switch {
	case source == "":
		return fetch.SourceURL(branch)
	case fetch.IsRemote(source), strings.HasPrefix(source, "file://"), filepath.IsAbs(source):
		return source
	default:
		return filepath.Join(baseDir, source)
	}
}

func parseDuration(path, field, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid %s %q: %w", path, field, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: %s must be positive", path, field)
	}
	return d, nil
}

var knownKeys = map[string]map[string]struct{}{
	"": {
		"source":  {},
		"branch":  {},
		"out":     {},
		"target":  {},
		"package": {},
		"fetch":   {},
		"format":  {},
	},
	"fetch": {
		"timeout":    {},
		"user_agent": {},
		"cache_dir":  {},
		"cache_ttl":  {},
	},
	"format": {
		"command": {},
	},
}

func unknownKeyWarnings(path string, data []byte) ([]string, error) {
	var raw map[string]any
	if err := decode(path, data, &raw); err != nil {
		return nil, err
	}

	var warnings []string
	if unknown := collectUnknownKeys(raw, knownKeys[""]); len(unknown) > 0 {
		warnings = append(warnings, fmt.Sprintf("%s: unknown configuration keys: %s", path, strings.Join(unknown, ", ")))
	}
	for _, table := range []string{"fetch", "format"} {
		record, ok := raw[table].(map[string]any)
		if !ok {
			continue
		}
		if unknown := collectUnknownKeys(record, knownKeys[table]); len(unknown) > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: unknown %s keys: %s", path, table, strings.Join(unknown, ", ")))
		}
	}
	return warnings, nil
}

func collectUnknownKeys(raw map[string]any, known map[string]struct{}) []string {
	unknown := make([]string, 0)
	for key := range raw {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	return unknown
}

func validatePackage(path, pkg string) error {
	if !token.IsIdentifier(pkg) || token.Lookup(pkg) != token.IDENT {
		return fmt.Errorf("%s: invalid package name %q", path, pkg)
	}
	return nil
}

func resolveOut(path, out string) (string, error) {
	if filepath.IsAbs(out) {
		return "", fmt.Errorf("%s: out must be a relative path", path)
	}

	cleaned := filepath.Clean(out)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: out must not traverse upwards", path)
	}

	baseDir := filepath.Dir(path)
	return filepath.Join(baseDir, cleaned), nil
}
