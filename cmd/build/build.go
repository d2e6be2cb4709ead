package build

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/errilaz/grimo/cmd/util"
	"github.com/errilaz/grimo/internal/fingerprint"
	"github.com/errilaz/grimo/internal/generate"
	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/internal/logger"
	"github.com/errilaz/grimo/internal/version"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatGo   = "go"
)

var (
	conn    util.ConnectionFlags
	output  string
	format  string
	pkgName string
	check   bool
)

var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write the resolved schema graph or a typed Go adapter",
	Long: `Read the catalog of one schema, resolve every column, parameter and return
type, and write the result either as a JSON schema graph or as Go source.

The format follows --format, or the extension of --output when it is not set.
With --check nothing is written; the command fails when the existing output
no longer matches the database.`,
	RunE: runBuild,
}

func init() {
	util.AddConnectionFlags(BuildCmd, &conn)
	BuildCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: project output, or stdout)")
	BuildCmd.Flags().StringVar(&format, "format", "", "Output format: json or go")
	BuildCmd.Flags().StringVar(&pkgName, "package", "", "Package name of the Go adapter (default: output directory name)")
	BuildCmd.Flags().BoolVar(&check, "check", false, "Fail if the existing output differs from the database instead of writing")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	schema, proj, err := util.ReadSchema(ctx, cmd, &conn)
	if err != nil {
		return err
	}

	out := output
	if !cmd.Flags().Changed("output") && proj != nil {
		out = proj.Output
	}
	f, err := resolveFormat(format, out)
	if err != nil {
		return err
	}

	if check {
		if out == "" || out == "-" {
			return fmt.Errorf("--check needs an output file")
		}
		existing, err := os.ReadFile(out)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", out, err)
		}
		if err := Check(schema, existing, f); err != nil {
			return fmt.Errorf("%s is out of date: %w", out, err)
		}
		logger.Get().Info("Output is up to date", "path", out)
		return nil
	}

	data, err := Render(schema, f, packageName(pkgName, out))
	if err != nil {
		return err
	}

	if out == "" || out == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Get().Info("Wrote schema",
		"path", out,
		"format", f,
		"tables", len(schema.Tables),
		"views", len(schema.Views),
		"functions", len(schema.Functions),
	)
	return nil
}

// Render encodes the schema graph in the given format.
func Render(schema *ir.Schema, format, pkg string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema: %w", err)
		}
		return append(data, '\n'), nil
	case FormatGo:
		fp, err := fingerprint.Compute(schema)
		if err != nil {
			return nil, err
		}
		return generate.Generate(schema, generate.Options{
			Package:     pkg,
			Header:      fmt.Sprintf("Code generated by grimo v%s. DO NOT EDIT.", version.Version()),
			Fingerprint: fp,
		})
	default:
		return nil, fmt.Errorf("unknown format %q (want json or go)", format)
	}
}

// Check compares previously rendered output with schema. Go output carries
// its fingerprint in a header line; JSON output is decoded and hashed.
func Check(schema *ir.Schema, existing []byte, format string) error {
	want, err := fingerprint.Compute(schema)
	if err != nil {
		return err
	}

	var got *fingerprint.Fingerprint
	switch format {
	case FormatGo:
		var ok bool
		if got, ok = fingerprint.Parse(existing); !ok {
			return fmt.Errorf("no schema fingerprint found")
		}
	case FormatJSON:
		var prev ir.Schema
		if err := json.Unmarshal(existing, &prev); err != nil {
			return fmt.Errorf("failed to decode schema: %w", err)
		}
		if got, err = fingerprint.Compute(&prev); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want json or go)", format)
	}
	return fingerprint.Compare(got, want)
}

func resolveFormat(flag, out string) (string, error) {
	if flag != "" {
		flag = strings.ToLower(flag)
		if flag != FormatJSON && flag != FormatGo {
			return "", fmt.Errorf("unknown format %q (want json or go)", flag)
		}
		return flag, nil
	}
	if strings.EqualFold(filepath.Ext(out), ".go") {
		return FormatGo, nil
	}
	return FormatJSON, nil
}

func packageName(flag, out string) string {
	if flag != "" {
		return flag
	}
	if out == "" || out == "-" {
		return "schema"
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return "schema"
	}
	name := strings.ToLower(generate.Identifier(filepath.Base(filepath.Dir(abs))))
	if name == "x" {
		return "schema"
	}
	return name
}

