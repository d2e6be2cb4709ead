package build

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/errilaz/grimo/internal/fingerprint"
	"github.com/errilaz/grimo/internal/ir"
)

func sampleSchema() *ir.Schema {
	return &ir.Schema{
		Name: "public",
		Tables: []*ir.Table{{
			Name:    "accounts",
			ApiName: "Accounts",
			Attributes: []*ir.Attribute{
				{Name: "id", Type: "bigint", Udt: "int8", Order: 1, ApiType: ir.Bigint()},
			},
		}},
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag, out, want string
		wantErr         bool
	}{
		{"", "", FormatJSON, false},
		{"", "schema.json", FormatJSON, false},
		{"", "db/schema.go", FormatGo, false},
		{"GO", "schema.json", FormatGo, false},
		{"json", "x.go", FormatJSON, false},
		{"yaml", "", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.flag, tt.out)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveFormat(%q, %q) error = %v", tt.flag, tt.out, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.flag, tt.out, got, tt.want)
		}
	}
}

func TestPackageName(t *testing.T) {
	if got := packageName("models", "x/y.go"); got != "models" {
		t.Errorf("explicit package = %q", got)
	}
	if got := packageName("", ""); got != "schema" {
		t.Errorf("stdout package = %q", got)
	}
	if got := packageName("", filepath.Join("internal", "dbtypes", "schema.go")); got != "dbtypes" {
		t.Errorf("directory package = %q", got)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := Render(sampleSchema(), FormatJSON, "")
	if err != nil {
		t.Fatal(err)
	}
	var back ir.Schema
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if back.Tables[0].Attributes[0].ApiType.Kind != ir.KindBigint {
		t.Errorf("round trip lost the api type: %+v", back.Tables[0].Attributes[0])
	}
	if !strings.Contains(string(data), `"apiName": "Accounts"`) {
		t.Errorf("unexpected JSON:\n%s", data)
	}
}

func TestRenderGo(t *testing.T) {
	data, err := Render(sampleSchema(), FormatGo, "dbtypes")
	if err != nil {
		t.Fatal(err)
	}
	code := string(data)
	for _, want := range []string{"DO NOT EDIT", "package dbtypes", "type Account struct"} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code missing %q:\n%s", want, code)
		}
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(sampleSchema(), "xml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestCheck(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatGo} {
		t.Run(format, func(t *testing.T) {
			data, err := Render(sampleSchema(), format, "db")
			if err != nil {
				t.Fatal(err)
			}
			if err := Check(sampleSchema(), data, format); err != nil {
				t.Errorf("Check on fresh output = %v", err)
			}

			changed := sampleSchema()
			changed.Tables[0].Attributes[0].Nullable = true
			if err := Check(changed, data, format); !errors.Is(err, fingerprint.ErrMismatch) {
				t.Errorf("Check after change = %v, want ErrMismatch", err)
			}
		})
	}

	if err := Check(sampleSchema(), []byte("package db\n"), FormatGo); err == nil {
		t.Error("expected error for Go output without a fingerprint")
	}
}
