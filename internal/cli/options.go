package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/klapacz/pg-error-codes/internal/config"
)

// Options holds the parsed command line.
type Options struct {
	ConfigPath string
	// ConfigSet reports whether --config was given explicitly.
	ConfigSet    bool
	Source       string
	Branch       string
	Out          string
	Target       string
	Package      string
	DryRun       bool
	Refresh      bool
	Explain      string
	StrictConfig bool
	Verbose      bool
	LogFormat    string
	Args         []string
}

// Overrides converts the flag values into configuration overrides.
func (o Options) Overrides() config.Overrides {
	return config.Overrides{
		Source:  o.Source,
		Branch:  o.Branch,
		Out:     o.Out,
		Target:  o.Target,
		Package: o.Package,
	}
}

// Parse parses pgerrgen's flags. A usage listing is appended to parse errors,
// including pflag.ErrHelp.
func Parse(args []string) (Options, error) {
	opts := Options{
		ConfigPath: config.DefaultPath,
		LogFormat:  "text",
	}

	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w\n\n%s", err, Usage(programName, fs))
	}

	switch strings.ToLower(opts.LogFormat) {
	case "text", "json":
	default:
		return Options{}, fmt.Errorf("invalid --log-format %q: want text or json\n\n%s", opts.LogFormat, Usage(programName, fs))
	}
	if opts.Source != "" && opts.Branch != "" {
		return Options{}, errors.New("--source and --branch are mutually exclusive")
	}

	opts.ConfigSet = fs.Changed("config")
	opts.Args = fs.Args()
	return opts, nil
}

const programName = "pgerrgen"

func newFlagSet(opts *Options) *pflag.FlagSet {
	fs := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "Path to configuration file (TOML, or YAML by extension)")
	fs.StringVar(&opts.Source, "source", "", "Catalog URL or local errcodes.txt path")
	fs.StringVar(&opts.Branch, "branch", "", "PostgreSQL branch or tag to fetch errcodes.txt from")
	fs.StringVarP(&opts.Out, "out", "o", "", "Output file; relative paths are resolved against the config directory")
	fs.StringVar(&opts.Target, "target", "", "Output language: typescript or go")
	fs.StringVar(&opts.Package, "package", "", "Package name for the go target")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print the generated file instead of writing it")
	fs.BoolVar(&opts.Refresh, "refresh", false, "Ignore the cached catalog and fetch it again")
	fs.StringVar(&opts.Explain, "explain", "", "Describe a SQLSTATE code from the catalog and exit")
	fs.BoolVar(&opts.StrictConfig, "strict-config", false, "Treat configuration warnings as errors")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	fs.StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "Log output format: text or json")
	return fs
}

// Usage renders the flag listing for fs under the given program name.
func Usage(name string, fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s:\n", name)
	buf.WriteString(fs.FlagUsages())
	return buf.String()
}
