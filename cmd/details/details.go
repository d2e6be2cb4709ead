package details

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/errilaz/grimo/cmd/util"
	"github.com/errilaz/grimo/internal/color"
	"github.com/errilaz/grimo/internal/ir"
)

var (
	conn    util.ConnectionFlags
	noColor bool
)

var DetailsCmd = &cobra.Command{
	Use:   "details",
	Short: "Print the resolved schema",
	Long:  "Read the catalog of one schema and print its tables, views, types, enums, domains and functions with their resolved api types.",
	RunE:  runDetails,
}

func init() {
	util.AddConnectionFlags(DetailsCmd, &conn)
	DetailsCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func runDetails(cmd *cobra.Command, args []string) error {
	schema, _, err := util.ReadSchema(context.Background(), cmd, &conn)
	if err != nil {
		return err
	}
	Print(cmd.OutOrStdout(), schema, color.New(!noColor))
	return nil
}

// Print writes a listing of the schema, one block per object.
func Print(w io.Writer, s *ir.Schema, c *color.Color) {
	for _, t := range s.Tables {
		header(w, c, "table", t.Name, t.ApiName, "")
		attributes(w, c, t.Attributes)
	}
	for _, v := range s.Views {
		var flags []string
		if v.Updatable {
			flags = append(flags, "updatable")
		}
		if v.Insertable {
			flags = append(flags, "insertable")
		}
		header(w, c, "view", v.Name, v.ApiName, strings.Join(flags, ", "))
		attributes(w, c, v.Attributes)
	}
	for _, t := range s.Composites {
		header(w, c, "type", t.Name, t.ApiName, "")
		attributes(w, c, t.Attributes)
	}
	for _, e := range s.Enums {
		labels := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			labels[i] = c.Name(f.Name)
		}
		fmt.Fprintf(w, "%s %s %s\n  %s\n\n", c.Kind("enum"), c.Bold(e.Name), c.Dim(e.ApiName), strings.Join(labels, " | "))
	}
	for _, d := range s.Domains {
		extra := d.BaseType
		if d.NotNull {
			extra += " not null"
		}
		fmt.Fprintf(w, "%s %s %s\n  %s %s\n\n", c.Kind("domain"), c.Bold(d.Name), c.Dim(d.ApiName), c.Type(d.ApiType.String()), c.Dim(extra))
	}
	for _, f := range s.Functions {
		params := make([]string, len(f.Parameters))
		for i, p := range f.Parameters {
			name := p.Name
			if name == "" {
				name = fmt.Sprintf("$%d", i+1)
			}
			params[i] = c.Name(name) + ": " + c.Type(p.ApiType.String())
		}
		ret := "void"
		if f.ReturnType != nil {
			ret = f.ReturnType.String()
			if f.ReturnsSet {
				ret = "setof " + ret
			}
		}
		fmt.Fprintf(w, "%s %s(%s): %s\n\n", c.Kind("function"), c.Bold(f.Name), strings.Join(params, ", "), c.Type(ret))
	}
}

func header(w io.Writer, c *color.Color, kind, name, apiName, extra string) {
	line := c.Kind(kind) + " " + c.Bold(name) + " " + c.Dim(apiName)
	if extra != "" {
		line += " " + c.Dim("("+extra+")")
	}
	fmt.Fprintln(w, line)
}

func attributes(w io.Writer, c *color.Color, attrs []*ir.Attribute) {
	width := 0
	for _, a := range attrs {
		width = max(width, len(a.Name))
	}
	for _, a := range attrs {
		t := a.ApiType.String()
		if a.Nullable {
			t += "?"
		}
		raw := a.Type
		if a.Udt != "" && a.Udt != a.Type {
			raw += " " + a.Udt
		}
		pad := strings.Repeat(" ", width-len(a.Name))
		fmt.Fprintf(w, "  %s%s  %s  %s\n", c.Name(a.Name), pad, c.Type(t), c.Dim(raw))
	}
	fmt.Fprintln(w)
}
