package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/klapacz/pg-error-codes/internal/codegen"
)

func TestLoadSuccess(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configPath := writeConfig(t, tempDir, "pgerrgen.toml", `
branch = "REL_16_STABLE"
out = "src/pg-errors.ts"

[fetch]
timeout = "10s"
user_agent = "my-build"
cache_dir = ".cache/pgerrgen"
cache_ttl = "1h"

[format]
command = ["prettier", "--parser", "babel-ts"]
`)

	result, err := Load(configPath, LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}

	want := JobPlan{
		Source:        "https://github.com/postgres/postgres/raw/REL_16_STABLE/src/backend/utils/errcodes.txt",
		Out:           filepath.Join(tempDir, "src", "pg-errors.ts"),
		Target:        codegen.TargetTypeScript,
		Package:       "pgerrors",
		Timeout:       10 * time.Second,
		UserAgent:     "my-build",
		CacheDir:      filepath.Join(tempDir, ".cache", "pgerrgen"),
		CacheTTL:      time.Hour,
		FormatCommand: []string{"prettier", "--parser", "babel-ts"},
		BaseDir:       tempDir,
	}
	if diff := cmp.Diff(want, result.Plan); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configPath := writeConfig(t, tempDir, "pgerrgen.toml", ``)

	result, err := Load(configPath, LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	plan := result.Plan
	if plan.Source != "https://github.com/postgres/postgres/raw/master/src/backend/utils/errcodes.txt" {
		t.Errorf("Source = %q", plan.Source)
	}
	if plan.Out != filepath.Join(tempDir, "src", "index.ts") {
		t.Errorf("Out = %q", plan.Out)
	}
	if plan.Target != codegen.TargetTypeScript {
		t.Errorf("Target = %q", plan.Target)
	}
	if plan.Timeout != 30*time.Second || plan.CacheTTL != 24*time.Hour {
		t.Errorf("Timeout/CacheTTL = %v/%v", plan.Timeout, plan.CacheTTL)
	}
	if plan.CacheDir != "" {
		t.Errorf("CacheDir = %q, want disabled", plan.CacheDir)
	}
	if plan.UserAgent != "pgerrgen" {
		t.Errorf("UserAgent = %q", plan.UserAgent)
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, DefaultPath)

	if _, err := Load(configPath, LoadOptions{}); err == nil {
		t.Fatal("expected error for missing required config")
	}

	result, err := Load(configPath, LoadOptions{Optional: true})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if result.Plan.Out != filepath.Join(tempDir, "src", "index.ts") {
		t.Fatalf("Out = %q", result.Plan.Out)
	}
}

func TestLoadGoTarget(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configPath := writeConfig(t, tempDir, "pgerrgen.toml", `
target = "go"
package = "pgcodes"
source = "testdata/errcodes.txt"
`)

	result, err := Load(configPath, LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	plan := result.Plan
	if plan.Target != codegen.TargetGo {
		t.Errorf("Target = %q", plan.Target)
	}
	if plan.Out != filepath.Join(tempDir, "pgcodes", "errors.gen.go") {
		t.Errorf("Out = %q", plan.Out)
	}
	if plan.Source != filepath.Join(tempDir, "testdata", "errcodes.txt") {
		t.Errorf("Source = %q", plan.Source)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configPath := writeConfig(t, tempDir, "pgerrgen.yaml", `
source: https://example.com/errcodes.txt
out: gen/errors.ts
fetch:
  timeout: 5s
  colour: blue
format:
  command: [prettier, --parser, babel-ts]
`)

	result, err := Load(configPath, LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if result.Plan.Source != "https://example.com/errcodes.txt" {
		t.Errorf("Source = %q", result.Plan.Source)
	}
	if result.Plan.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", result.Plan.Timeout)
	}
	if diff := cmp.Diff([]string{"prettier", "--parser", "babel-ts"}, result.Plan.FormatCommand); diff != "" {
		t.Errorf("FormatCommand mismatch (-want +got):\n%s", diff)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "unknown fetch keys: colour") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configPath := writeConfig(t, tempDir, "pgerrgen.toml", `
source = "https://example.com/errcodes.txt"
out = "src/index.ts"
`)

	result, err := Load(configPath, LoadOptions{Overrides: Overrides{
		Branch:  "REL_15_STABLE",
		Out:     "lib/errors.go",
		Target:  "go",
		Package: "pgerr",
	}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	plan := result.Plan
	if plan.Source != "https://github.com/postgres/postgres/raw/REL_15_STABLE/src/backend/utils/errcodes.txt" {
		t.Errorf("Source = %q", plan.Source)
	}
	if plan.Out != filepath.Join(tempDir, "lib", "errors.go") {
		t.Errorf("Out = %q", plan.Out)
	}
	if plan.Target != codegen.TargetGo || plan.Package != "pgerr" {
		t.Errorf("Target/Package = %q/%q", plan.Target, plan.Package)
	}
}

func TestLoadUnknownKeys(t *testing.T) {
	t.Parallel()

	contents := `
out = "src/index.ts"
colour = "blue"

[format]
command = ["prettier"]
width = 80
`
	tempDir := t.TempDir()
	configPath := writeConfig(t, tempDir, "pgerrgen.toml", contents)

	result, err := Load(configPath, LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := []string{
		fmt.Sprintf("%s: unknown configuration keys: colour", configPath),
		fmt.Sprintf("%s: unknown format keys: width", configPath),
	}
	if diff := cmp.Diff(want, result.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}

	_, err = Load(configPath, LoadOptions{Strict: true})
	if err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("strict load error = %v, want unknown key failure", err)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{name: "invalid toml", contents: `out = `, wantErr: "pgerrgen.toml"},
		{name: "absolute out", contents: `out = "/tmp/index.ts"`, wantErr: "out must be a relative path"},
		{name: "traversing out", contents: `out = "../index.ts"`, wantErr: "out must not traverse upwards"},
		{name: "unknown target", contents: `target = "rust"`, wantErr: "unsupported target"},
		{name: "invalid package", contents: "target = \"go\"\npackage = \"func\"", wantErr: "invalid package name"},
		{name: "bad timeout", contents: "[fetch]\ntimeout = \"soon\"", wantErr: "invalid fetch.timeout"},
		{name: "negative ttl", contents: "[fetch]\ncache_ttl = \"-1h\"", wantErr: "fetch.cache_ttl must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			configPath := writeConfig(t, t.TempDir(), "pgerrgen.toml", tt.contents)
			_, err := Load(configPath, LoadOptions{})
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func writeConfig(tb testing.TB, dir, name, contents string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	clean := strings.TrimSpace(contents) + "\n"
	if err := os.WriteFile(path, []byte(clean), 0o600); err != nil {
		tb.Fatalf("write config: %v", err)
	}
	return path
}
