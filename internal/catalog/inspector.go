package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/errilaz/grimo/internal/logger"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Inspector reads the catalog through database/sql.
type Inspector struct {
	db Querier
}

// NewInspector creates an Inspector over db.
func NewInspector(db Querier) *Inspector {
	return &Inspector{db: db}
}

var _ Reader = (*Inspector)(nil)

// Enums returns the enums of schema with their labels in sort order.
func (i *Inspector) Enums(ctx context.Context, schema string) ([]EnumRow, error) {
	rows, err := i.db.QueryContext(ctx, enumsQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query enums: %w", err)
	}
	defer rows.Close()

	var enums []EnumRow
	index := make(map[string]int)
	for rows.Next() {
		var name string
		var label EnumLabel
		if err := rows.Scan(&name, &label.Name, &label.Order); err != nil {
			return nil, fmt.Errorf("failed to scan enum: %w", err)
		}
		pos, ok := index[name]
		if !ok {
			pos = len(enums)
			index[name] = pos
			enums = append(enums, EnumRow{Name: name})
		}
		enums[pos].Labels = append(enums[pos].Labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read enums: %w", err)
	}

	logger.Get().Debug("Read enums", "schema", schema, "count", len(enums))
	return enums, nil
}

// Composites returns the composite types of schema.
func (i *Inspector) Composites(ctx context.Context, schema string) ([]CompositeRow, error) {
	grouped, order, err := i.groupedAttributes(ctx, "composites", compositesQuery, schema)
	if err != nil {
		return nil, err
	}
	composites := make([]CompositeRow, 0, len(order))
	for _, name := range order {
		composites = append(composites, CompositeRow{Name: name, Attributes: grouped[name]})
	}

	logger.Get().Debug("Read composite types", "schema", schema, "count", len(composites))
	return composites, nil
}

// Tables returns the base tables of schema with their columns.
func (i *Inspector) Tables(ctx context.Context, schema string) ([]TableRow, error) {
	names, err := i.names(ctx, "tables", tablesQuery, schema)
	if err != nil {
		return nil, err
	}
	columns, _, err := i.groupedAttributes(ctx, "table columns", columnsQuery, schema, "BASE TABLE")
	if err != nil {
		return nil, err
	}
	tables := make([]TableRow, 0, len(names))
	for _, name := range names {
		tables = append(tables, TableRow{Name: name, Columns: columns[name]})
	}

	logger.Get().Debug("Read tables", "schema", schema, "count", len(tables))
	return tables, nil
}

// Views returns the views of schema with their columns.
func (i *Inspector) Views(ctx context.Context, schema string) ([]ViewRow, error) {
	rows, err := i.db.QueryContext(ctx, viewsQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer rows.Close()

	var views []ViewRow
	for rows.Next() {
		var v ViewRow
		if err := rows.Scan(&v.Name, &v.Updatable, &v.Insertable); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read views: %w", err)
	}

	columns, _, err := i.groupedAttributes(ctx, "view columns", columnsQuery, schema, "VIEW")
	if err != nil {
		return nil, err
	}
	for idx := range views {
		views[idx].Columns = columns[views[idx].Name]
	}

	logger.Get().Debug("Read views", "schema", schema, "count", len(views))
	return views, nil
}

// Domains returns the domains of schema.
func (i *Inspector) Domains(ctx context.Context, schema string) ([]DomainRow, error) {
	rows, err := i.db.QueryContext(ctx, domainsQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}
	defer rows.Close()

	var domains []DomainRow
	for rows.Next() {
		var d DomainRow
		if err := rows.Scan(&d.Name, &d.BaseType, &d.NotNull, &d.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read domains: %w", err)
	}

	logger.Get().Debug("Read domains", "schema", schema, "count", len(domains))
	return domains, nil
}

// Functions returns the non-trigger functions of schema with their input
// parameters in order.
func (i *Inspector) Functions(ctx context.Context, schema string) ([]FunctionRow, error) {
	rows, err := i.db.QueryContext(ctx, functionsQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query functions: %w", err)
	}
	defer rows.Close()

	var functions []FunctionRow
	var specific []string
	for rows.Next() {
		var f FunctionRow
		var specificName string
		if err := rows.Scan(&specificName, &f.Name, &f.Type, &f.Udt, &f.ReturnsSet); err != nil {
			return nil, fmt.Errorf("failed to scan function: %w", err)
		}
		functions = append(functions, f)
		specific = append(specific, specificName)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read functions: %w", err)
	}

	params, _, err := i.groupedAttributes(ctx, "function parameters", parametersQuery, schema)
	if err != nil {
		return nil, err
	}
	for idx := range functions {
		functions[idx].Parameters = params[specific[idx]]
	}

	logger.Get().Debug("Read functions", "schema", schema, "count", len(functions))
	return functions, nil
}

func (i *Inspector) names(ctx context.Context, what, query string, args ...any) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	return names, nil
}

// groupedAttributes runs a query whose rows are (owner, name, order, type,
// udt[, nullable]) and groups them by owner, keeping first-seen owner order.
func (i *Inspector) groupedAttributes(ctx context.Context, what, query string, args ...any) (map[string][]AttributeRow, []string, error) {
	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s columns: %w", what, err)
	}
	withNullable := len(cols) > 5

	grouped := make(map[string][]AttributeRow)
	var order []string
	for rows.Next() {
		var owner string
		var udt sql.NullString
		attr := AttributeRow{}
		dest := []any{&owner, &attr.Name, &attr.Order, &attr.Type, &udt}
		if withNullable {
			dest = append(dest, &attr.Nullable)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		attr.Udt = udt.String
		if _, ok := grouped[owner]; !ok {
			order = append(order, owner)
		}
		grouped[owner] = append(grouped[owner], attr)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	return grouped, order, nil
}
