// Package project reads the grimo project file. The file may be TOML, YAML or
// JSON and is found by walking up from the working directory.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/errilaz/grimo/internal/ignore"
)

// FileNames lists the accepted project file names in lookup order.
var FileNames = []string{
	"grimo.toml",
	"grimo.yaml",
	"grimo.yml",
	"grimo.json",
	"grimo.config.json",
}

// UDTs names extra types to treat as strings or numbers.
type UDTs struct {
	String []string `toml:"string" yaml:"string" json:"string"`
	Number []string `toml:"number" yaml:"number" json:"number"`
}

// Config is the content of a project file. Zero values mean "not set".
type Config struct {
	Host     string            `toml:"host" yaml:"host" json:"host"`
	Port     int               `toml:"port" yaml:"port" json:"port"`
	DBName   string            `toml:"dbname" yaml:"dbname" json:"dbname"`
	User     string            `toml:"user" yaml:"user" json:"user"`
	Schema   string            `toml:"schema" yaml:"schema" json:"schema"`
	Output   string            `toml:"output" yaml:"output" json:"output"`
	Override map[string]string `toml:"override" yaml:"override" json:"override"`
	UDTs     UDTs              `toml:"udts" yaml:"udts" json:"udts"`
	Ignore   string            `toml:"ignore" yaml:"ignore" json:"ignore"`

	path string
}

// Find returns the path of the nearest project file at or above dir, or ""
// when there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load parses the project file at path. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var c Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".json":
		err = json.Unmarshal(data, &c)
	default:
		return nil, fmt.Errorf("unsupported project file format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, err)
	}
	c.path = path
	return &c, nil
}

// Discover finds and loads the nearest project file. It returns nil when
// there is none.
func Discover(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil || path == "" {
		return nil, err
	}
	return Load(path)
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// IgnorePath returns the ignore file to use. Relative paths are taken from
// the project file's directory; without a setting it is .grimoignore beside
// the project file, or in base when there is no project file.
func (c *Config) IgnorePath(base string) string {
	dir := base
	if c != nil && c.path != "" {
		dir = filepath.Dir(c.path)
	}
	name := ignore.FileName
	if c != nil && c.Ignore != "" {
		name = c.Ignore
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
