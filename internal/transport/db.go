// Package transport executes query intents, either against a database or
// against a remote grimo middleware over HTTP.
package transport

import (
	"context"
	"database/sql"

	"github.com/errilaz/grimo/internal/client"
	"github.com/errilaz/grimo/internal/logger"
	"github.com/errilaz/grimo/internal/query"
	"github.com/errilaz/grimo/internal/sqlgen"
)

// Executor is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DB compiles intents to SQL and runs them through database/sql. Driver
// errors are returned unchanged.
type DB struct {
	db        Executor
	formatter sqlgen.Formatter
}

var _ client.Transport = (*DB)(nil)

// NewDB creates a DB transport formatting for PostgreSQL.
func NewDB(db Executor) *DB {
	return &DB{db: db, formatter: sqlgen.Postgres{}}
}

func (t *DB) Select(ctx context.Context, q query.SelectQuery) (query.Result, error) {
	return t.rows(ctx, sqlgen.Select(t.formatter, q), "select")
}

func (t *DB) Insert(ctx context.Context, c query.InsertCommand) (query.Result, error) {
	stmt := sqlgen.Insert(t.formatter, c)
	if len(c.Returning) > 0 {
		return t.rows(ctx, stmt, "insert")
	}
	return t.exec(ctx, stmt, "insert")
}

func (t *DB) Update(ctx context.Context, c query.UpdateCommand) (query.Result, error) {
	stmt := sqlgen.Update(t.formatter, c)
	if len(c.Returning) > 0 {
		return t.rows(ctx, stmt, "update")
	}
	return t.exec(ctx, stmt, "update")
}

func (t *DB) Delete(ctx context.Context, c query.DeleteCommand) (query.Result, error) {
	stmt := sqlgen.Delete(t.formatter, c)
	if len(c.Returning) > 0 {
		return t.rows(ctx, stmt, "delete")
	}
	return t.exec(ctx, stmt, "delete")
}

func (t *DB) Call(ctx context.Context, c query.CallCommand) ([]query.Row, error) {
	res, err := t.rows(ctx, sqlgen.Call(t.formatter, c), "call")
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

func (t *DB) exec(ctx context.Context, stmt, description string) (query.Result, error) {
	debug := logger.IsDebug()
	if debug {
		logger.Get().Debug("Executing SQL", "description", description, "sql", stmt)
	}

	res, err := t.db.ExecContext(ctx, stmt)
	if err != nil {
		if debug {
			logger.Get().Debug("SQL execution failed", "description", description, "error", err)
		}
		return query.Result{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return query.Result{}, err
	}
	return query.Result{RowsAffected: n, Rows: []query.Row{}}, nil
}

func (t *DB) rows(ctx context.Context, stmt, description string) (query.Result, error) {
	debug := logger.IsDebug()
	if debug {
		logger.Get().Debug("Executing SQL", "description", description, "sql", stmt)
	}

	rows, err := t.db.QueryContext(ctx, stmt)
	if err != nil {
		if debug {
			logger.Get().Debug("SQL execution failed", "description", description, "error", err)
		}
		return query.Result{}, err
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return query.Result{}, err
	}
	return query.Result{RowsAffected: int64(len(out)), Rows: out}, nil
}

func scanRows(rows *sql.Rows) ([]query.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []query.Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(query.Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
