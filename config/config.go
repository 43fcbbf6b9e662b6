// Package config loads avo project settings from avo.yaml, avo.yml or
// avo.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FileNames are the configuration file names looked for, in order.
var FileNames = []string{"avo.yaml", "avo.yml", "avo.toml"}

// Config holds project settings for the avo command.
type Config struct {
	// Runtime is the import path of the rendering library used by
	// generated code. Empty means resolve it from go.mod.
	Runtime string `yaml:"runtime" toml:"runtime"`

	// Suffix is appended to the base name of an .avo file to name its
	// generated file.
	Suffix string `yaml:"suffix" toml:"suffix"`

	// Exclude lists directory names skipped when walking for .avo files.
	Exclude []string `yaml:"exclude" toml:"exclude"`

	// Verbose enables progress logging.
	Verbose bool `yaml:"verbose" toml:"verbose"`

	// Path is the file the configuration was loaded from, if any.
	Path string `yaml:"-" toml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Suffix:  ".go",
		Exclude: []string{"vendor", "node_modules"},
	}
}

// Load reads a configuration file. Fields the file leaves unset keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch format := detectFormat(path); format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: YAML parse error: %w", path, err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("%s: TOML parse error: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Find looks for a configuration file in dir and its parents, stopping at
// the directory containing go.mod. It returns the default configuration
// when none is found.
func Find(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return Load(path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}

		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return Default(), nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if !strings.HasSuffix(c.Suffix, ".go") {
		return fmt.Errorf("suffix %q must end in .go", c.Suffix)
	}
	if strings.ContainsAny(c.Runtime, " \t\n\"") {
		return fmt.Errorf("runtime %q is not an import path", c.Runtime)
	}
	return nil
}

// Excluded reports whether a directory with the given base name is skipped.
// Hidden directories are always skipped.
func (c *Config) Excluded(name string) bool {
	if len(name) > 1 && strings.HasPrefix(name, ".") {
		return true
	}
	for _, ex := range c.Exclude {
		if ex == name {
			return true
		}
	}
	return false
}

// OutputPath returns the generated file path for an .avo source file.
func (c *Config) OutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + c.Suffix
}

// detectFormat detects the file format from its extension.
func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatUnknown
	}
}
