// Package query defines the intent objects that describe a statement without
// executing it. Every type encodes to and from JSON so an intent can cross a
// network boundary unchanged.
package query

// Row is an untyped result or input row keyed by column name.
type Row = map[string]any

// Result is what a transport returns for a statement.
type Result struct {
	RowsAffected int64 `json:"rowsAffected"`
	Rows         []Row `json:"rows"`
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderBySort is one ORDER BY term.
type OrderBySort struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// SelectQuery selects rows from a table or view. A nil Selected means every
// column.
type SelectQuery struct {
	Table      string        `json:"table"`
	Selected   []string      `json:"selected,omitempty"`
	Conditions Conditions    `json:"conditions,omitempty"`
	Limit      *int          `json:"limit,omitempty"`
	Offset     *int          `json:"offset,omitempty"`
	OrderBy    []OrderBySort `json:"orderBy,omitempty"`
}

// InsertCommand inserts rows. Columns fixes the column list; a row missing a
// column inserts the column default. Returning nil means no RETURNING clause
// and ["*"] means every column.
type InsertCommand struct {
	Table     string   `json:"table"`
	Columns   []string `json:"columns,omitempty"`
	Rows      []Row    `json:"rows,omitempty"`
	Returning []string `json:"returning,omitempty"`
}

// UpdateCommand sets columns on the rows matching Conditions.
type UpdateCommand struct {
	Table      string     `json:"table"`
	Set        Row        `json:"set,omitempty"`
	Conditions Conditions `json:"conditions,omitempty"`
	Returning  []string   `json:"returning,omitempty"`
}

// DeleteCommand deletes the rows matching Conditions.
type DeleteCommand struct {
	Table      string     `json:"table"`
	Conditions Conditions `json:"conditions,omitempty"`
	Returning  []string   `json:"returning,omitempty"`
}

// CallCommand calls a function with positional parameters.
type CallCommand struct {
	Procedure  string `json:"procedure"`
	Parameters []any  `json:"parameters,omitempty"`
}

// Int returns a pointer to n, for Limit and Offset.
func Int(n int) *int { return &n }
