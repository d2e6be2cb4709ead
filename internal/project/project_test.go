package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

var want = Config{
	Host:     "db.internal",
	Port:     6543,
	DBName:   "app",
	User:     "grimo",
	Schema:   "api",
	Output:   "schema.json",
	Override: map[string]string{"citext": "Email"},
	UDTs:     UDTs{String: []string{"ltree"}, Number: []string{"int2vector"}},
	Ignore:   "custom.ignore",
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"grimo.toml", `
host = "db.internal"
port = 6543
dbname = "app"
user = "grimo"
schema = "api"
output = "schema.json"
ignore = "custom.ignore"

[override]
citext = "Email"

[udts]
string = ["ltree"]
number = ["int2vector"]
`},
		{"grimo.yaml", `
host: db.internal
port: 6543
dbname: app
user: grimo
schema: api
output: schema.json
ignore: custom.ignore
override:
  citext: Email
udts:
  string: [ltree]
  number: [int2vector]
`},
		{"grimo.json", `{
  "host": "db.internal",
  "port": 6543,
  "dbname": "app",
  "user": "grimo",
  "schema": "api",
  "output": "schema.json",
  "ignore": "custom.ignore",
  "override": {"citext": "Email"},
  "udts": {"string": ["ltree"], "number": ["int2vector"]}
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)
			write(t, path, tt.content)

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(want, *got, cmpopts.IgnoreUnexported(Config{})); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			if got.Path() != path {
				t.Errorf("Path() = %q, want %q", got.Path(), path)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "grimo.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "grimo.yml")
	write(t, bad, "port: [not a number")
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}

	other := filepath.Join(dir, "grimo.ini")
	write(t, other, "host=x")
	if _, err := Load(other); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "grimo.config.json"), `{"schema": "api"}`)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg == nil || cfg.Schema != "api" {
		t.Fatalf("Discover = %+v, want schema api", cfg)
	}

	// A nearer file wins over a farther one.
	write(t, filepath.Join(root, "a", "grimo.toml"), `schema = "near"`)
	cfg, err = Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Schema != "near" {
		t.Errorf("Schema = %q, want near", cfg.Schema)
	}
}

func TestIgnorePath(t *testing.T) {
	var none *Config
	if got := none.IgnorePath("/work"); got != filepath.Join("/work", ".grimoignore") {
		t.Errorf("nil config IgnorePath = %q", got)
	}

	c := &Config{path: "/proj/grimo.toml"}
	if got := c.IgnorePath("/work"); got != filepath.Join("/proj", ".grimoignore") {
		t.Errorf("default IgnorePath = %q", got)
	}

	c.Ignore = "rules/ignore.toml"
	if got := c.IgnorePath("/work"); got != filepath.Join("/proj", "rules", "ignore.toml") {
		t.Errorf("relative IgnorePath = %q", got)
	}

	c.Ignore = "/etc/grimo.ignore"
	if got := c.IgnorePath("/work"); got != "/etc/grimo.ignore" {
		t.Errorf("absolute IgnorePath = %q", got)
	}
}
