package client

import (
	"context"

	"github.com/errilaz/grimo/internal/query"
)

// InsertBuilder builds one insert that reports the affected row count.
type InsertBuilder struct {
	transport Transport
	cmd       *query.InsertCommand
	s         *state
}

// Returning switches to the variant that returns the inserted rows. No
// columns means every column.
func (b *InsertBuilder) Returning(columns ...string) *InsertReturning {
	next := &InsertReturning{transport: b.transport, cmd: b.cmd, s: b.s.handOff("Returning")}
	if next.s.mutable("Returning") && next.s.checkColumns("Returning", columns...) {
		b.cmd.Returning = returningColumns(columns)
	}
	return next
}

// Command returns the intent built so far.
func (b *InsertBuilder) Command() query.InsertCommand { return *b.cmd }

// Err returns the first error recorded by the builder.
func (b *InsertBuilder) Err() error { return b.s.err }

// Execute runs the insert and returns the number of rows inserted.
func (b *InsertBuilder) Execute(ctx context.Context) (int64, error) {
	if err := b.s.finish("Execute"); err != nil {
		return 0, err
	}
	res, err := b.transport.Insert(ctx, *b.cmd)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// InsertReturning is an insert returning rows.
type InsertReturning struct {
	transport Transport
	cmd       *query.InsertCommand
	s         *state
}

// Command returns the intent built so far.
func (b *InsertReturning) Command() query.InsertCommand { return *b.cmd }

// Err returns the first error recorded by the builder.
func (b *InsertReturning) Err() error { return b.s.err }

// Fetch runs the insert and returns the inserted rows.
func (b *InsertReturning) Fetch(ctx context.Context) ([]query.Row, error) {
	if err := b.s.finish("Fetch"); err != nil {
		return nil, err
	}
	res, err := b.transport.Insert(ctx, *b.cmd)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// FetchOne runs the insert and returns the first inserted row.
func (b *InsertReturning) FetchOne(ctx context.Context) (query.Row, error) {
	rows, err := b.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return first(b.s.table, rows)
}

// UpdateBuilder builds one update that reports the affected row count.
type UpdateBuilder struct {
	transport Transport
	cmd       *query.UpdateCommand
	s         *state
}

// Where adds an AND-joined condition.
func (b *UpdateBuilder) Where(column string, args ...any) *UpdateBuilder {
	addCondition(b.s, &b.cmd.Conditions, column, args)
	return b
}

// Returning switches to the variant that returns the updated rows.
func (b *UpdateBuilder) Returning(columns ...string) *UpdateReturning {
	next := &UpdateReturning{transport: b.transport, cmd: b.cmd, s: b.s.handOff("Returning")}
	if next.s.mutable("Returning") && next.s.checkColumns("Returning", columns...) {
		b.cmd.Returning = returningColumns(columns)
	}
	return next
}

// Command returns the intent built so far.
func (b *UpdateBuilder) Command() query.UpdateCommand { return *b.cmd }

// Err returns the first error recorded by the builder.
func (b *UpdateBuilder) Err() error { return b.s.err }

// Execute runs the update and returns the number of rows updated.
func (b *UpdateBuilder) Execute(ctx context.Context) (int64, error) {
	if err := b.s.finish("Execute"); err != nil {
		return 0, err
	}
	res, err := b.transport.Update(ctx, *b.cmd)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// UpdateReturning is an update returning rows.
type UpdateReturning struct {
	transport Transport
	cmd       *query.UpdateCommand
	s         *state
}

// Where adds an AND-joined condition.
func (b *UpdateReturning) Where(column string, args ...any) *UpdateReturning {
	addCondition(b.s, &b.cmd.Conditions, column, args)
	return b
}

// Command returns the intent built so far.
func (b *UpdateReturning) Command() query.UpdateCommand { return *b.cmd }

// Err returns the first error recorded by the builder.
func (b *UpdateReturning) Err() error { return b.s.err }

// Fetch runs the update and returns the updated rows.
func (b *UpdateReturning) Fetch(ctx context.Context) ([]query.Row, error) {
	if err := b.s.finish("Fetch"); err != nil {
		return nil, err
	}
	res, err := b.transport.Update(ctx, *b.cmd)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// FetchOne runs the update and returns the first updated row.
func (b *UpdateReturning) FetchOne(ctx context.Context) (query.Row, error) {
	rows, err := b.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return first(b.s.table, rows)
}

// DeleteBuilder builds one delete that reports the affected row count.
type DeleteBuilder struct {
	transport Transport
	cmd       *query.DeleteCommand
	s         *state
}

// Where adds an AND-joined condition.
func (b *DeleteBuilder) Where(column string, args ...any) *DeleteBuilder {
	addCondition(b.s, &b.cmd.Conditions, column, args)
	return b
}

// Returning switches to the variant that returns the deleted rows.
func (b *DeleteBuilder) Returning(columns ...string) *DeleteReturning {
	next := &DeleteReturning{transport: b.transport, cmd: b.cmd, s: b.s.handOff("Returning")}
	if next.s.mutable("Returning") && next.s.checkColumns("Returning", columns...) {
		b.cmd.Returning = returningColumns(columns)
	}
	return next
}

// Command returns the intent built so far.
func (b *DeleteBuilder) Command() query.DeleteCommand { return *b.cmd }

// Err returns the first error recorded by the builder.
func (b *DeleteBuilder) Err() error { return b.s.err }

// Execute runs the delete and returns the number of rows deleted.
func (b *DeleteBuilder) Execute(ctx context.Context) (int64, error) {
	if err := b.s.finish("Execute"); err != nil {
		return 0, err
	}
	res, err := b.transport.Delete(ctx, *b.cmd)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// DeleteReturning is a delete returning rows.
type DeleteReturning struct {
	transport Transport
	cmd       *query.DeleteCommand
	s         *state
}

// Where adds an AND-joined condition.
func (b *DeleteReturning) Where(column string, args ...any) *DeleteReturning {
	addCondition(b.s, &b.cmd.Conditions, column, args)
	return b
}

// Command returns the intent built so far.
func (b *DeleteReturning) Command() query.DeleteCommand { return *b.cmd }

// Err returns the first error recorded by the builder.
func (b *DeleteReturning) Err() error { return b.s.err }

// Fetch runs the delete and returns the deleted rows.
func (b *DeleteReturning) Fetch(ctx context.Context) ([]query.Row, error) {
	if err := b.s.finish("Fetch"); err != nil {
		return nil, err
	}
	res, err := b.transport.Delete(ctx, *b.cmd)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// FetchOne runs the delete and returns the first deleted row.
func (b *DeleteReturning) FetchOne(ctx context.Context) (query.Row, error) {
	rows, err := b.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return first(b.s.table, rows)
}

func addCondition(s *state, conditions *query.Conditions, column string, args []any) {
	if !s.mutable("Where") || !s.checkColumns("Where", column) {
		return
	}
	c, reason := newCondition(column, args)
	if reason != "" {
		s.fail("Where", "%s", reason)
		return
	}
	*conditions = append(*conditions, c)
}
