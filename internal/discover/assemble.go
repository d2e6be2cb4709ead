package discover

import (
	"sort"

	"github.com/errilaz/grimo/internal/catalog"
	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/internal/resolver"
)

// Assemble resolves every attribute of rows and builds the schema graph.
// rows must be complete. The first attribute whose type cannot be resolved
// aborts assembly with a *resolver.UnresolvedError.
func Assemble(rows *Rows, opts Options) (*ir.Schema, error) {
	tables := filter(rows.Tables, func(t catalog.TableRow) bool { return !opts.Ignore.Table(t.Name) })
	views := filter(rows.Views, func(v catalog.ViewRow) bool { return !opts.Ignore.View(v.Name) })
	functions := filter(rows.Functions, func(f catalog.FunctionRow) bool { return !opts.Ignore.Function(f.Name) })

	// Row types of tables and views are composites too; explicit composite
	// types take precedence on a name clash.
	lookups := resolver.Lookups{
		Enums:      make(map[string]string, len(rows.Enums)),
		Composites: make(map[string]string, len(rows.Composites)+len(tables)+len(views)),
		Domains:    make(map[string]resolver.Alias, len(rows.Domains)),
	}
	for _, e := range rows.Enums {
		lookups.Enums[e.Name] = ir.ApiName(e.Name)
	}
	for _, t := range tables {
		lookups.Composites[t.Name] = ir.ApiName(t.Name)
	}
	for _, v := range views {
		lookups.Composites[v.Name] = ir.ApiName(v.Name)
	}
	for _, c := range rows.Composites {
		lookups.Composites[c.Name] = ir.ApiName(c.Name)
	}
	for _, d := range rows.Domains {
		lookups.Domains[d.Name] = resolver.Alias{BaseType: d.BaseType, NotNull: d.NotNull}
	}

	a := &assembler{r: resolver.New(lookups, resolver.Options{
		Overrides: opts.Overrides,
		Strings:   opts.Strings,
		Numbers:   opts.Numbers,
	})}

	graph := &ir.Schema{
		Name:       opts.schema(),
		Enums:      make([]*ir.Enum, 0, len(rows.Enums)),
		Composites: make([]*ir.Composite, 0, len(rows.Composites)),
		Tables:     make([]*ir.Table, 0, len(tables)),
		Views:      make([]*ir.View, 0, len(views)),
		Functions:  make([]*ir.Function, 0, len(functions)),
		Domains:    make([]*ir.Domain, 0, len(rows.Domains)),
	}

	for _, e := range rows.Enums {
		enum := &ir.Enum{Name: e.Name, ApiName: ir.ApiName(e.Name)}
		for _, l := range e.Labels {
			enum.Fields = append(enum.Fields, ir.EnumField{Name: l.Name, Order: l.Order})
		}
		graph.Enums = append(graph.Enums, enum)
	}

	for _, d := range rows.Domains {
		typ := a.r.Resolve(d.BaseType, d.BaseType)
		if !typ.IsResolved() {
			return nil, &resolver.UnresolvedError{
				EntityKind: "domain",
				Entity:     d.Name,
				RawType:    d.BaseType,
				RawUdt:     d.BaseType,
			}
		}
		graph.Domains = append(graph.Domains, &ir.Domain{
			Name:     d.Name,
			ApiName:  ir.ApiName(d.Name),
			BaseType: d.BaseType,
			NotNull:  d.NotNull,
			Comment:  d.Comment,
			ApiType:  typ,
		})
	}

	for _, c := range rows.Composites {
		attrs, err := a.attributes("composite", c.Name, c.Attributes)
		if err != nil {
			return nil, err
		}
		graph.Composites = append(graph.Composites, &ir.Composite{
			Name:       c.Name,
			ApiName:    ir.ApiName(c.Name),
			Attributes: attrs,
		})
	}

	for _, t := range tables {
		attrs, err := a.attributes("table", t.Name, t.Columns)
		if err != nil {
			return nil, err
		}
		graph.Tables = append(graph.Tables, &ir.Table{
			Name:       t.Name,
			ApiName:    ir.ApiName(t.Name),
			Attributes: attrs,
		})
	}

	for _, v := range views {
		attrs, err := a.attributes("view", v.Name, v.Columns)
		if err != nil {
			return nil, err
		}
		graph.Views = append(graph.Views, &ir.View{
			Name:       v.Name,
			ApiName:    ir.ApiName(v.Name),
			Updatable:  v.Updatable,
			Insertable: v.Insertable,
			Attributes: attrs,
		})
	}

	for _, f := range functions {
		fn, err := a.function(f)
		if err != nil {
			return nil, err
		}
		graph.Functions = append(graph.Functions, fn)
	}

	return graph, nil
}

type assembler struct {
	r *resolver.Resolver
}

func (a *assembler) attributes(kind, owner string, rows []catalog.AttributeRow) ([]*ir.Attribute, error) {
	attrs := make([]*ir.Attribute, 0, len(rows))
	for _, row := range rows {
		res := a.r.ResolveAttribute(row.Type, row.Udt, row.Nullable)
		if !res.Type.IsResolved() {
			return nil, &resolver.UnresolvedError{
				EntityKind: kind,
				Entity:     owner,
				Attribute:  row.Name,
				RawType:    row.Type,
				RawUdt:     row.Udt,
			}
		}
		attrs = append(attrs, &ir.Attribute{
			Name:     row.Name,
			Type:     row.Type,
			Udt:      row.Udt,
			Order:    row.Order,
			Nullable: res.Nullable,
			ApiType:  res.Type,
		})
	}
	sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].Order < attrs[j].Order })
	return attrs, nil
}

func (a *assembler) function(f catalog.FunctionRow) (*ir.Function, error) {
	fn := &ir.Function{
		Name:       f.Name,
		ApiName:    ir.ApiName(f.Name),
		ReturnsSet: f.ReturnsSet,
	}
	if f.Type != resolver.TypeVoid {
		typ := a.r.Resolve(f.Type, f.Udt)
		if !typ.IsResolved() {
			return nil, &resolver.UnresolvedError{
				EntityKind: "function",
				Entity:     f.Name,
				Attribute:  "return",
				RawType:    f.Type,
				RawUdt:     f.Udt,
			}
		}
		fn.ReturnType = &typ
	}

	params, err := a.attributes("function", f.Name, f.Parameters)
	if err != nil {
		return nil, err
	}
	fn.Parameters = params
	return fn, nil
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
