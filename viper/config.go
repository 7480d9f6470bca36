// Package viper loads docblocks configuration using spf13/viper.
package viper

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/docblocks"
	viperlib "github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "docblocks.yaml"

// EnvPrefix prefixes environment overrides, e.g. DOCBLOCKS_LOG_LEVEL.
const EnvPrefix = "DOCBLOCKS"

// keyDelimiter replaces viper's "." so suffix keys like ".h" stay intact.
const keyDelimiter = "::"

// Load reads configuration from path over the defaults, then applies
// environment overrides. An empty path reads DefaultFile if it exists and
// falls back to defaults otherwise; an explicit path must exist.
func Load(path string) (docblocks.Config, error) {
	v := viperlib.NewWithOptions(viperlib.KeyDelimiter(keyDelimiter))
	setDefaults(v, docblocks.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return docblocks.Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg docblocks.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return docblocks.Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.FiletypeParsers == nil {
		cfg.FiletypeParsers = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return docblocks.Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func setDefaults(v *viperlib.Viper, cfg docblocks.Config) {
	v.SetDefault("filetype_parsers", cfg.FiletypeParsers)
	v.SetDefault("marker_text", string(cfg.MarkerText))
	v.SetDefault("include", cfg.Include)
	v.SetDefault("exclude", cfg.Exclude)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("log"+keyDelimiter+"level", cfg.Log.Level)
	v.SetDefault("log"+keyDelimiter+"format", cfg.Log.Format)
}

// ErrConfigExists is returned by Write when the file exists and force is off.
var ErrConfigExists = errors.New("config file already exists")

// Write marshals cfg to YAML at path. An existing file is only replaced when
// force is set.
func Write(path string, cfg docblocks.Config, force bool) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return f.Close()
}
