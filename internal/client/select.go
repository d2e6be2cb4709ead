package client

import (
	"context"
	"slices"

	"github.com/errilaz/grimo/internal/query"
)

// SelectBuilder builds one select. It is single-use and not safe for
// concurrent use.
type SelectBuilder struct {
	transport Transport
	q         query.SelectQuery
	s         *state
}

// Where adds an AND-joined condition. See Range for between operators.
func (b *SelectBuilder) Where(column string, args ...any) *SelectBuilder {
	if !b.s.mutable("Where") || !b.s.checkColumns("Where", column) {
		return b
	}
	c, reason := newCondition(column, args)
	if reason != "" {
		b.s.fail("Where", "%s", reason)
		return b
	}
	b.q.Conditions = append(b.q.Conditions, c)
	return b
}

// Limit caps the number of rows.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	if !b.s.mutable("Limit") {
		return b
	}
	if n < 0 {
		b.s.fail("Limit", "negative limit %d", n)
		return b
	}
	b.q.Limit = query.Int(n)
	return b
}

// Offset skips rows.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	if !b.s.mutable("Offset") {
		return b
	}
	if n < 0 {
		b.s.fail("Offset", "negative offset %d", n)
		return b
	}
	b.q.Offset = query.Int(n)
	return b
}

// OrderBy appends a sort term.
func (b *SelectBuilder) OrderBy(column string, dir query.Direction) *SelectBuilder {
	if !b.s.mutable("OrderBy") || !b.s.checkColumns("OrderBy", column) {
		return b
	}
	if dir != query.Asc && dir != query.Desc {
		b.s.fail("OrderBy", "unknown direction %q", dir)
		return b
	}
	b.q.OrderBy = append(b.q.OrderBy, query.OrderBySort{Column: column, Direction: dir})
	return b
}

// Query returns a copy of the intent built so far.
func (b *SelectBuilder) Query() query.SelectQuery {
	q := b.q
	q.Selected = slices.Clone(b.q.Selected)
	q.Conditions = slices.Clone(b.q.Conditions)
	q.OrderBy = slices.Clone(b.q.OrderBy)
	return q
}

// Err returns the first error recorded by the builder.
func (b *SelectBuilder) Err() error {
	return b.s.err
}

// Fetch runs the select and returns every row.
func (b *SelectBuilder) Fetch(ctx context.Context) ([]query.Row, error) {
	if err := b.s.finish("Fetch"); err != nil {
		return nil, err
	}
	res, err := b.transport.Select(ctx, b.q)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// FetchOne runs the select and returns the first row, or a NoResultError
// when there is none.
func (b *SelectBuilder) FetchOne(ctx context.Context) (query.Row, error) {
	if err := b.s.finish("FetchOne"); err != nil {
		return nil, err
	}
	res, err := b.transport.Select(ctx, b.q)
	if err != nil {
		return nil, err
	}
	return first(b.s.table, res.Rows)
}

func first(table string, rows []query.Row) (query.Row, error) {
	if len(rows) == 0 {
		return nil, &NoResultError{Table: table}
	}
	return rows[0], nil
}
