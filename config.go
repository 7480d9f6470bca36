package docblocks

import (
	"fmt"
	"strings"
)

// MarkerTextPolicy decides what happens to text following a "%%" marker.
type MarkerTextPolicy string

// Marker text policies.
const (
	// MarkerTextKeep makes the text the first line of the new text block.
	MarkerTextKeep MarkerTextPolicy = "keep"
	// MarkerTextDrop discards the text and reports a diagnostic. Text on the
	// unmarked first block of a file is always kept.
	MarkerTextDrop MarkerTextPolicy = "drop"
)

// Config holds parser and gallery settings, usually loaded from docblocks.yaml.
type Config struct {
	// FiletypeParsers maps a file suffix (".h") to a lexer name ("C++"),
	// overriding filename-based lookup.
	FiletypeParsers map[string]string `mapstructure:"filetype_parsers" yaml:"filetype_parsers"`

	// MarkerText is the policy for text after "%%" markers. Default: keep.
	MarkerText MarkerTextPolicy `mapstructure:"marker_text" yaml:"marker_text"`

	// Include and Exclude are doublestar globs, relative to the scanned
	// directory, selecting gallery example files.
	Include []string `mapstructure:"include" yaml:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`

	// Workers bounds concurrent file splitting. Zero means GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // console, json
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		FiletypeParsers: map[string]string{},
		MarkerText:      MarkerTextKeep,
		Include:         []string{"**/plot_*", "**/*.cpp", "**/*.c", "**/*.jl", "**/*.m", "**/*.f90"},
		Exclude:         []string{"**/_build/**", "**/.git/**"},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.MarkerText {
	case "", MarkerTextKeep, MarkerTextDrop:
	default:
		return fmt.Errorf("invalid marker_text %q: want %q or %q", c.MarkerText, MarkerTextKeep, MarkerTextDrop)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d: must not be negative", c.Workers)
	}
	for suffix, name := range c.FiletypeParsers {
		if !strings.HasPrefix(suffix, ".") || name == "" {
			return fmt.Errorf("invalid filetype_parsers entry %q: %q", suffix, name)
		}
	}
	return nil
}
