// Package ignore filters catalog objects by name using glob patterns read
// from a TOML ignore file.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the default name of the ignore file.
const FileName = ".grimoignore"

// Config holds the patterns for each kind of object. Patterns support the
// `*` wildcard and `!` negation; a negated match always keeps the object.
type Config struct {
	Tables    []string
	Views     []string
	Functions []string
}

type tomlFile struct {
	Tables    patterns `toml:"tables,omitempty"`
	Views     patterns `toml:"views,omitempty"`
	Functions patterns `toml:"functions,omitempty"`
}

type patterns struct {
	Patterns []string `toml:"patterns,omitempty"`
}

// Load reads the ignore file at path. A missing file yields a nil Config,
// which ignores nothing.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var f tomlFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, err
	}
	return &Config{
		Tables:    f.Tables.Patterns,
		Views:     f.Views.Patterns,
		Functions: f.Functions.Patterns,
	}, nil
}

// Table reports whether the table should be left out of the schema.
func (c *Config) Table(name string) bool {
	if c == nil {
		return false
	}
	return match(name, c.Tables)
}

// View reports whether the view should be left out of the schema.
func (c *Config) View(name string) bool {
	if c == nil {
		return false
	}
	return match(name, c.Views)
}

// Function reports whether the function should be left out of the schema.
func (c *Config) Function(name string) bool {
	if c == nil {
		return false
	}
	return match(name, c.Functions)
}

func match(name string, patterns []string) bool {
	matched := false
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			if glob(p[1:], name) {
				return false
			}
			continue
		}
		if glob(p, name) {
			matched = true
		}
	}
	return matched
}

func glob(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	if err != nil {
		return pattern == name
	}
	return ok
}
