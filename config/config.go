// Package config parses the command line and the optional YAML defaults
// file into the runtime configuration.
package config

import (
	"io"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

const (
	DefaultFormat          = "ESRI Shapefile"
	DefaultTransactionSize = 1000
	DefaultMinLength       = 200.0
	DefaultMaxLength       = 2000.0
	DefaultTagFields       = "name,highway"
)

// Config is the resolved runtime configuration.
type Config struct {
	Input  string
	Output string

	Format          string
	Geographic      bool
	TransactionSize int
	MinLength       float64
	MaxLength       float64
	// DatasetOptions and LayerOptions are KEY=VALUE pairs handed through to
	// the output driver, order preserved.
	DatasetOptions []string
	LayerOptions   []string
	// TagFields are the tag keys the OSM reader copies into attribute
	// fields.
	TagFields []string
	Quiet     bool
}

// options is the go-flags view of the command line. Numeric options are
// pointers so that values from the defaults file only apply when the flag
// was not given.
type options struct {
	Format          string   `short:"f" long:"format" description:"Output format" value-name:"FORMAT"`
	Geographic      bool     `long:"geographic" description:"Treat coordinates as geographic (lat/long) and calculate distances on a sphere. Not required if the coordinate system is recognized correctly."`
	TransactionSize *int     `long:"gt" description:"Group NUMBER segments per transaction, 0 for a single transaction" value-name:"NUMBER"`
	DatasetOptions  string   `long:"dsco" description:"Dataset creation options for the output format (KEY=VALUE, comma separated)" value-name:"KEY=VALUE"`
	LayerOptions    string   `long:"lco" description:"Layer creation options for the output format (KEY=VALUE, comma separated)" value-name:"KEY=VALUE"`
	MinLength       *float64 `short:"m" long:"min-length" description:"Minimum length for circular linestrings with up to 5 points" value-name:"NUM"`
	MaxLength       *float64 `short:"M" long:"max-length" description:"Maximum length of a linestring" value-name:"NUM"`
	ConfigFile      string   `short:"c" long:"config" description:"YAML file with option defaults" value-name:"FILE"`
	TagFields       string   `long:"tags" description:"Tag keys copied as attribute fields by the OSM reader" value-name:"KEY,..."`
	Quiet           bool     `short:"q" long:"quiet" description:"Suppress progress output"`

	Args struct {
		Input  string `positional-arg-name:"INFILE"`
		Output string `positional-arg-name:"OUTFILE"`
	} `positional-args:"yes"`
}

// fileDefaults mirrors the YAML defaults file. Every key is optional.
type fileDefaults struct {
	Format          string   `yaml:"format"`
	Geographic      bool     `yaml:"geographic"`
	TransactionSize *int     `yaml:"gt"`
	MinLength       *float64 `yaml:"min_length"`
	MaxLength       *float64 `yaml:"max_length"`
	TagFields       string   `yaml:"tags"`
}

// ErrHelp is returned by Parse when -h/--help was requested. The help text
// has already been written in that case.
var ErrHelp = errors.New("help requested")

// Parse resolves the command line arguments (without the program name) and
// the optional defaults file into a Config. Usage and error messages go to
// out.
func Parse(args []string, out io.Writer) (*Config, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[OPTIONS] INFILE OUTFILE"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(out)
			return nil, ErrHelp
		}
		parser.WriteHelp(out)
		return nil, err
	}
	if opts.Args.Input == "" || opts.Args.Output == "" || len(rest) != 0 {
		parser.WriteHelp(out)
		return nil, errors.New("two positional arguments required")
	}

	defaults := fileDefaults{}
	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(err, "reading defaults file")
		}
		if err := yaml.Unmarshal(data, &defaults); err != nil {
			return nil, errors.Wrap(err, "parsing defaults file")
		}
	}

	conf := &Config{
		Input:           opts.Args.Input,
		Output:          opts.Args.Output,
		Format:          DefaultFormat,
		Geographic:      opts.Geographic || defaults.Geographic,
		TransactionSize: DefaultTransactionSize,
		MinLength:       DefaultMinLength,
		MaxLength:       DefaultMaxLength,
		DatasetOptions:  SplitOptions(opts.DatasetOptions),
		LayerOptions:    SplitOptions(opts.LayerOptions),
		TagFields:       splitList(DefaultTagFields),
		Quiet:           opts.Quiet,
	}

	apply := func(flag *string, def, fallback string) string {
		if *flag != "" {
			return *flag
		}
		if def != "" {
			return def
		}
		return fallback
	}
	conf.Format = apply(&opts.Format, defaults.Format, DefaultFormat)
	conf.TagFields = splitList(apply(&opts.TagFields, defaults.TagFields, DefaultTagFields))

	if opts.TransactionSize != nil {
		conf.TransactionSize = *opts.TransactionSize
	} else if defaults.TransactionSize != nil {
		conf.TransactionSize = *defaults.TransactionSize
	}
	if opts.MinLength != nil {
		conf.MinLength = *opts.MinLength
	} else if defaults.MinLength != nil {
		conf.MinLength = *defaults.MinLength
	}
	if opts.MaxLength != nil {
		conf.MaxLength = *opts.MaxLength
	} else if defaults.MaxLength != nil {
		conf.MaxLength = *defaults.MaxLength
	}

	if err := conf.check(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) check() error {
	if c.TransactionSize < 0 {
		return errors.New("--gt must not be negative")
	}
	if c.MaxLength <= 0 {
		return errors.New("--max-length must be positive")
	}
	if c.MinLength < 0 {
		return errors.New("--min-length must not be negative")
	}
	return nil
}

// SplitOptions turns a comma separated KEY=VALUE list into a slice, order
// preserved. Empty entries are dropped.
func SplitOptions(s string) []string {
	return splitList(s)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
