// Package catalog reads the raw type metadata of one schema from the
// PostgreSQL catalog. Rows are returned exactly as the catalog reports them;
// classification happens later in discovery.
package catalog

import "context"

// Reader is the read-only catalog surface discovery depends on. Each method
// is independent of the others and may be called concurrently.
type Reader interface {
	Enums(ctx context.Context, schema string) ([]EnumRow, error)
	Composites(ctx context.Context, schema string) ([]CompositeRow, error)
	Tables(ctx context.Context, schema string) ([]TableRow, error)
	Views(ctx context.Context, schema string) ([]ViewRow, error)
	Domains(ctx context.Context, schema string) ([]DomainRow, error)
	Functions(ctx context.Context, schema string) ([]FunctionRow, error)
}

// AttributeRow is a column, composite attribute or parameter.
type AttributeRow struct {
	Name     string
	Order    int
	Type     string
	Udt      string
	Nullable bool
}

// EnumRow is one enum type with its labels in sort order.
type EnumRow struct {
	Name   string
	Labels []EnumLabel
}

// EnumLabel is one enum label.
type EnumLabel struct {
	Name  string
	Order float64
}

// CompositeRow is a composite type.
type CompositeRow struct {
	Name       string
	Attributes []AttributeRow
}

// TableRow is a base table.
type TableRow struct {
	Name    string
	Columns []AttributeRow
}

// ViewRow is a view.
type ViewRow struct {
	Name       string
	Updatable  bool
	Insertable bool
	Columns    []AttributeRow
}

// DomainRow is a domain over a base type.
type DomainRow struct {
	Name     string
	BaseType string
	NotNull  bool
	Comment  string
}

// FunctionRow is a non-trigger function.
type FunctionRow struct {
	Name       string
	Type       string
	Udt        string
	ReturnsSet bool
	Parameters []AttributeRow
}
