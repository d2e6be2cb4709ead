// Package generate renders a typed Go adapter for a discovered schema. The
// adapter holds one struct per table, view and composite type, one string
// type per enum, and thin wrappers that decode untyped client rows into those
// structs.
package generate

import (
	"bytes"
	"fmt"
	"go/token"
	"sort"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/errilaz/grimo/internal/fingerprint"
	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/internal/logger"
)

// RuntimePath is the import path generated code uses for rows, clients and
// decoding.
const RuntimePath = "github.com/errilaz/grimo"

// Options controls the generated file.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// Header is written as a comment above the package clause.
	Header string
	// Fingerprint, when set, is written below Header so the file can be
	// checked against the database later.
	Fingerprint *fingerprint.Fingerprint
}

// Generate renders schema as Go source.
func Generate(schema *ir.Schema, opts Options) ([]byte, error) {
	g, err := newGenerator(schema, opts)
	if err != nil {
		return nil, err
	}
	f := g.file()

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render adapter: %w", err)
	}
	logger.Get().Debug("Generated adapter",
		"package", opts.Package,
		"tables", len(schema.Tables),
		"views", len(schema.Views),
		"bytes", buf.Len(),
	)
	return buf.Bytes(), nil
}

type generator struct {
	schema      *ir.Schema
	pkg         string
	header      string
	fingerprint *fingerprint.Fingerprint
	// goNames maps an api name to the Go type declared for it, and owners
	// to the object that declared it.
	goNames map[string]string
	owners  map[string]string
	taken   map[string]string
}

func newGenerator(schema *ir.Schema, opts Options) (*generator, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "schema"
	}
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}
	g := &generator{
		schema:      schema,
		pkg:         pkg,
		header:      opts.Header,
		fingerprint: opts.Fingerprint,
		goNames:     make(map[string]string),
		owners:      make(map[string]string),
		taken:       make(map[string]string),
	}

	for _, e := range schema.Enums {
		if err := g.declare(e.ApiName, Identifier(e.ApiName), "enum "+e.Name); err != nil {
			return nil, err
		}
	}
	for _, c := range schema.Composites {
		if err := g.declare(c.ApiName, Identifier(c.ApiName), "composite "+c.Name); err != nil {
			return nil, err
		}
	}
	for _, t := range schema.Tables {
		if err := g.declare(t.ApiName, RowName(t.ApiName), "table "+t.Name); err != nil {
			return nil, err
		}
	}
	for _, v := range schema.Views {
		if err := g.declare(v.ApiName, RowName(v.ApiName), "view "+v.Name); err != nil {
			return nil, err
		}
	}
	for _, d := range schema.Domains {
		if err := g.declare(d.ApiName, Identifier(d.ApiName), "domain "+d.Name); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// declare reserves a Go name. An api name already declared keeps its first
// Go name, so composites win over same-named tables.
func (g *generator) declare(apiName, goName, owner string) error {
	if _, ok := g.goNames[apiName]; ok {
		return nil
	}
	if prev, ok := g.taken[goName]; ok {
		return fmt.Errorf("%s and %s both generate the Go name %s", prev, owner, goName)
	}
	g.taken[goName] = owner
	g.goNames[apiName] = goName
	g.owners[apiName] = owner
	return nil
}

func (g *generator) file() *jen.File {
	f := jen.NewFile(g.pkg)
	if g.header != "" {
		f.HeaderComment(g.header)
	}
	if g.fingerprint != nil {
		f.HeaderComment(g.fingerprint.String())
	}
	f.ImportName(RuntimePath, "grimo")

	g.genEnums(f)
	g.genDomains(f)
	g.genComposites(f)
	g.genRelations(f)
	g.genFunctions(f)
	return f
}

func (g *generator) genEnums(f *jen.File) {
	for _, e := range g.schema.Enums {
		name := g.goNames[e.ApiName]
		f.Commentf("%s is the %s enum.", name, e.Name)
		f.Type().Id(name).String()

		if len(e.Fields) == 0 {
			continue
		}
		fields := append([]ir.EnumField(nil), e.Fields...)
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })
		f.Const().DefsFunc(func(d *jen.Group) {
			for _, field := range fields {
				d.Id(name + Identifier(field.Name)).Id(name).Op("=").Lit(field.Name)
			}
		})
	}
}

func (g *generator) genDomains(f *jen.File) {
	for _, d := range g.schema.Domains {
		name := g.goNames[d.ApiName]
		if d.Comment != "" {
			f.Comment(d.Comment)
		} else {
			f.Commentf("%s is the %s domain over %s.", name, d.Name, d.BaseType)
		}
		f.Type().Id(name).Op("=").Add(g.goType(d.ApiType, false))
	}
}

func (g *generator) genComposites(f *jen.File) {
	for _, c := range g.schema.Composites {
		name := g.goNames[c.ApiName]
		f.Commentf("%s is the %s composite type.", name, c.Name)
		f.Type().Id(name).Struct(g.fields(c.Attributes)...)
	}
}

func (g *generator) genRelations(f *jen.File) {
	type relation struct {
		kind, suffix, name, apiName string
		attrs                       []*ir.Attribute
	}
	var rels []relation
	for _, t := range g.schema.Tables {
		rels = append(rels, relation{"table", "Table", t.Name, t.ApiName, t.Attributes})
	}
	for _, v := range g.schema.Views {
		rels = append(rels, relation{"view", "View", v.Name, v.ApiName, v.Attributes})
	}

	for _, r := range rels {
		if g.owners[r.apiName] != r.kind+" "+r.name {
			// A composite of the same name already declared the type.
			continue
		}
		name := g.goNames[r.apiName]

		f.Commentf("%s is a row of the %s %s.", name, r.name, r.kind)
		f.Type().Id(name).Struct(g.fields(r.attrs)...)

		f.Commentf("%s%s is the database name of the %s %s.", name, r.suffix, r.name, r.kind)
		f.Const().Id(name + r.suffix).Op("=").Lit(r.name)

		f.Commentf("Decode%s converts client rows into %s values.", name, name)
		f.Func().Id("Decode"+name).
			Params(jen.Id("rows").Index().Qual(RuntimePath, "Row")).
			Params(jen.Index().Id(name), jen.Error()).
			Block(
				jen.Return(jen.Qual(RuntimePath, "Decode").Types(jen.Id(name)).Call(jen.Id("rows"))),
			)
	}
}

func (g *generator) genFunctions(f *jen.File) {
	for _, fn := range g.schema.Functions {
		name := "Call" + Identifier(fn.ApiName)

		params := []jen.Code{
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("c").Op("*").Qual(RuntimePath, "Client"),
		}
		var args []jen.Code
		for i, p := range fn.Parameters {
			id := paramName(p.Name, i)
			params = append(params, jen.Id(id).Add(g.goType(p.ApiType, false)))
			args = append(args, jen.Id(id))
		}
		call := jen.Id("c").Dot("Function").Call(jen.Lit(fn.Name)).Dot("Call").Call(
			append([]jen.Code{jen.Id("ctx")}, args...)...,
		)

		if fn.ReturnType != nil && fn.ReturnType.Kind == ir.KindInterface {
			if rowType, ok := g.goNames[fn.ReturnType.Name]; ok {
				f.Commentf("%s calls %s and decodes its rows.", name, fn.Name)
				f.Func().Id(name).Params(params...).Params(jen.Index().Id(rowType), jen.Error()).Block(
					jen.List(jen.Id("rows"), jen.Err()).Op(":=").Add(call),
					jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
					jen.Return(jen.Qual(RuntimePath, "Decode").Types(jen.Id(rowType)).Call(jen.Id("rows"))),
				)
				continue
			}
		}

		f.Commentf("%s calls %s.", name, fn.Name)
		f.Func().Id(name).Params(params...).Params(jen.Index().Qual(RuntimePath, "Row"), jen.Error()).Block(
			jen.Return(call),
		)
	}
}

func (g *generator) fields(attrs []*ir.Attribute) []jen.Code {
	sorted := append([]*ir.Attribute(nil), attrs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	out := make([]jen.Code, 0, len(sorted))
	for _, a := range sorted {
		tag := a.Name
		if a.Nullable {
			tag += ",omitempty"
		}
		out = append(out, jen.Id(Identifier(ir.ApiName(a.Name))).
			Add(g.goType(a.ApiType, a.Nullable)).
			Tag(map[string]string{"json": tag}))
	}
	return out
}

// goType maps an api type to Go. Nullable scalars become pointers; slices,
// raw JSON and any already have a nil value.
func (g *generator) goType(t ir.ApiType, nullable bool) jen.Code {
	var base *jen.Statement
	pointer := nullable
	switch t.Kind {
	case ir.KindBoolean:
		base = jen.Bool()
	case ir.KindNumber:
		base = jen.Float64()
	case ir.KindBigint:
		base = jen.Int64()
	case ir.KindString:
		base = jen.String()
	case ir.KindJSON:
		base = jen.Qual("encoding/json", "RawMessage")
		pointer = false
	case ir.KindDate:
		base = jen.Qual("time", "Time")
	case ir.KindEnum, ir.KindInterface:
		if name, ok := g.goNames[t.Name]; ok {
			base = jen.Id(name)
		} else {
			base = jen.Id("any")
			pointer = false
		}
	case ir.KindOverride:
		base = jen.Id(t.Name)
	case ir.KindArray:
		pointer = false
		if t.Element == nil {
			base = jen.Index().Id("any")
		} else {
			base = jen.Index().Add(g.goType(*t.Element, false))
		}
	default:
		base = jen.Id("any")
		pointer = false
	}
	if pointer {
		return jen.Op("*").Add(base)
	}
	return base
}

// RowName is the Go type name for a row of a table or view.
func RowName(apiName string) string {
	return Identifier(inflect.Singularize(apiName))
}

// Identifier turns a database name into an exported Go identifier. Runs of
// characters that cannot appear in an identifier separate words.
func Identifier(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	id := b.String()
	if id == "" {
		return "X"
	}
	if unicode.IsDigit([]rune(id)[0]) {
		id = "X" + id
	}
	return id
}

func paramName(name string, i int) string {
	if name == "" {
		return fmt.Sprintf("arg%d", i+1)
	}
	id := Identifier(name)
	runes := []rune(id)
	runes[0] = unicode.ToLower(runes[0])
	id = string(runes)
	if token.IsKeyword(id) || id == "ctx" || id == "c" {
		id += "_"
	}
	return id
}
