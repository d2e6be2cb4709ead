// Package client builds query intents fluently and hands them to a
// transport. Rows are untyped; see Decode for typed access.
package client

import (
	"context"
	"slices"

	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/internal/query"
)

// Transport executes intents. Failures are returned to the caller unchanged.
type Transport interface {
	Select(ctx context.Context, q query.SelectQuery) (query.Result, error)
	Insert(ctx context.Context, c query.InsertCommand) (query.Result, error)
	Update(ctx context.Context, c query.UpdateCommand) (query.Result, error)
	Delete(ctx context.Context, c query.DeleteCommand) (query.Result, error)
	Call(ctx context.Context, c query.CallCommand) ([]query.Row, error)
}

// Client hands out per-table and per-function entry points.
type Client struct {
	transport Transport
	schema    *ir.Schema
}

// New creates a Client. schema may be nil; when set, column names passed to
// builders are checked against it.
func New(transport Transport, schema *ir.Schema) *Client {
	return &Client{transport: transport, schema: schema}
}

// Table returns the entry point for a table or view.
func (c *Client) Table(name string) *Table {
	t := &Table{transport: c.transport, name: name, insertable: true, updatable: true}
	if c.schema == nil {
		return t
	}
	if tbl := c.schema.Table(name); tbl != nil {
		t.columns = columnSet(tbl.Attributes)
	} else if v := c.schema.View(name); v != nil {
		t.columns = columnSet(v.Attributes)
		t.insertable = v.Insertable
		t.updatable = v.Updatable
	}
	return t
}

// Function returns the entry point for a function.
func (c *Client) Function(name string) *Function {
	return &Function{transport: c.transport, name: name}
}

// Table builds statements against one table or view. Each call starts a new
// single-use builder.
type Table struct {
	transport  Transport
	name       string
	columns    map[string]struct{}
	insertable bool
	updatable  bool
}

// Name returns the database name of the table.
func (t *Table) Name() string {
	return t.name
}

// SelectAll starts a select of every column.
func (t *Table) SelectAll() *SelectBuilder {
	return &SelectBuilder{
		transport: t.transport,
		q:         query.SelectQuery{Table: t.name},
		s:         newState(t.name, t.columns),
	}
}

// Select starts a select of the given columns.
func (t *Table) Select(column string, more ...string) *SelectBuilder {
	b := t.SelectAll()
	cols := append([]string{column}, more...)
	if b.s.checkColumns("Select", cols...) {
		b.q.Selected = cols
	}
	return b
}

// Insert starts an insert of one row. Absent columns take their defaults.
func (t *Table) Insert(row query.Row) *InsertBuilder {
	b := t.newInsert()
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	if b.s.checkColumns("Insert", keys...) {
		b.cmd.Rows = []query.Row{cloneRow(row)}
	}
	return b
}

// InsertRows starts an insert of rows over a fixed column list. A row
// missing one of the columns inserts its default.
func (t *Table) InsertRows(columns []string, rows []query.Row) *InsertBuilder {
	b := t.newInsert()
	switch {
	case len(columns) == 0:
		b.s.fail("InsertRows", "no columns given")
	case len(rows) == 0:
		b.s.fail("InsertRows", "no rows given")
	case b.s.checkColumns("InsertRows", columns...):
		listed := make(map[string]struct{}, len(columns))
		for _, c := range columns {
			listed[c] = struct{}{}
		}
		for i, row := range rows {
			for k := range row {
				if _, ok := listed[k]; !ok {
					b.s.fail("InsertRows", "row %d has column %q not in the column list", i, k)
					return b
				}
			}
		}
		b.cmd.Columns = slices.Clone(columns)
		b.cmd.Rows = make([]query.Row, len(rows))
		for i, row := range rows {
			b.cmd.Rows[i] = cloneRow(row)
		}
	}
	return b
}

func (t *Table) newInsert() *InsertBuilder {
	b := &InsertBuilder{
		transport: t.transport,
		cmd:       &query.InsertCommand{Table: t.name},
		s:         newState(t.name, t.columns),
	}
	if !t.insertable {
		b.s.fail("Insert", "%q is not insertable", t.name)
	}
	return b
}

// Update starts an update setting the given columns.
func (t *Table) Update(set query.Row) *UpdateBuilder {
	b := &UpdateBuilder{
		transport: t.transport,
		cmd:       &query.UpdateCommand{Table: t.name},
		s:         newState(t.name, t.columns),
	}
	if !t.updatable {
		b.s.fail("Update", "%q is not updatable", t.name)
		return b
	}
	if len(set) == 0 {
		b.s.fail("Update", "no columns to set")
		return b
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	if b.s.checkColumns("Update", keys...) {
		b.cmd.Set = cloneRow(set)
	}
	return b
}

// Delete starts a delete. Without Where it deletes every row.
func (t *Table) Delete() *DeleteBuilder {
	b := &DeleteBuilder{
		transport: t.transport,
		cmd:       &query.DeleteCommand{Table: t.name},
		s:         newState(t.name, t.columns),
	}
	if !t.updatable {
		b.s.fail("Delete", "%q is not updatable", t.name)
	}
	return b
}

// Function calls one database function.
type Function struct {
	transport Transport
	name      string
}

// Call calls the function with positional parameters and returns its rows.
func (f *Function) Call(ctx context.Context, params ...any) ([]query.Row, error) {
	return f.transport.Call(ctx, query.CallCommand{Procedure: f.name, Parameters: params})
}

// CallOne is Call expecting at least one row.
func (f *Function) CallOne(ctx context.Context, params ...any) (query.Row, error) {
	rows, err := f.Call(ctx, params...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &NoResultError{Table: f.name}
	}
	return rows[0], nil
}

func columnSet(attrs []*ir.Attribute) map[string]struct{} {
	set := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		set[a.Name] = struct{}{}
	}
	return set
}

func cloneRow(row query.Row) query.Row {
	out := make(query.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
