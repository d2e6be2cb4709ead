// Package sqlgen compiles query intents into PostgreSQL text. Compilation is
// pure: every identifier goes through Formatter.Name, every value through
// Formatter.Value and every limit or offset through Formatter.Number.
package sqlgen

import (
	"sort"

	"github.com/errilaz/grimo/internal/query"
)

// Select compiles a select query.
func Select(f Formatter, q query.SelectQuery) string {
	b := NewCodeBuilder()

	b.Push("select ")
	if len(q.Selected) == 0 {
		b.Line("*")
	} else {
		b.Line(names(f, q.Selected)...)
	}
	b.Line("from ", f.Name(q.Table))

	where(b, f, q.Conditions)

	b.When(len(q.OrderBy) > 0, func(b *CodeBuilder) {
		b.Push("order by ")
		b.Each(len(q.OrderBy), func(b *CodeBuilder, i int) {
			if i > 0 {
				b.Push(", ")
			}
			b.Push(f.Name(q.OrderBy[i].Column), " ", direction(q.OrderBy[i].Direction))
		})
		b.Line()
	})
	b.When(q.Limit != nil, func(b *CodeBuilder) {
		b.Line("limit ", f.Number(*q.Limit))
	})
	b.When(q.Offset != nil, func(b *CodeBuilder) {
		b.Line("offset ", f.Number(*q.Offset))
	})

	return b.String()
}

// Insert compiles an insert command. Without columns or rows it inserts a
// single row of defaults.
func Insert(f Formatter, c query.InsertCommand) string {
	b := NewCodeBuilder()

	columns := c.Columns
	if len(columns) == 0 {
		columns = rowKeys(c.Rows)
	}

	if len(columns) == 0 || len(c.Rows) == 0 {
		b.Line("insert into ", f.Name(c.Table))
		b.Line("default values")
	} else {
		b.Push("insert into ", f.Name(c.Table), " (")
		b.Push(names(f, columns)...)
		b.Line(")")
		b.Line("values")
		b.Indent()
		b.Each(len(c.Rows), func(b *CodeBuilder, i int) {
			row := c.Rows[i]
			b.Push("(")
			for j, col := range columns {
				if j > 0 {
					b.Push(", ")
				}
				if v, ok := row[col]; ok {
					b.Push(f.Value(v))
				} else {
					b.Push("default")
				}
			}
			b.Push(")")
			if i < len(c.Rows)-1 {
				b.Push(",")
			}
			b.Line()
		})
		b.Dedent()
	}

	returning(b, f, c.Returning)
	return b.String()
}

// Update compiles an update command. Set columns are written in sorted order.
func Update(f Formatter, c query.UpdateCommand) string {
	b := NewCodeBuilder()

	b.Line("update ", f.Name(c.Table))
	keys := sortedKeys(c.Set)
	b.Push("set ")
	b.Indent()
	b.Each(len(keys), func(b *CodeBuilder, i int) {
		b.Push(f.Name(keys[i]), " = ", f.Value(c.Set[keys[i]]))
		if i < len(keys)-1 {
			b.Push(",")
		}
		b.Line()
	})
	b.Dedent()

	where(b, f, c.Conditions)
	returning(b, f, c.Returning)
	return b.String()
}

// Delete compiles a delete command.
func Delete(f Formatter, c query.DeleteCommand) string {
	b := NewCodeBuilder()

	b.Line("delete from ", f.Name(c.Table))
	where(b, f, c.Conditions)
	returning(b, f, c.Returning)
	return b.String()
}

// Call compiles a function call returning its rows.
func Call(f Formatter, c query.CallCommand) string {
	b := NewCodeBuilder()

	b.Push("select * from ", f.Name(c.Procedure), "(")
	b.Each(len(c.Parameters), func(b *CodeBuilder, i int) {
		if i > 0 {
			b.Push(", ")
		}
		b.Push(f.Value(c.Parameters[i]))
	})
	b.Line(")")
	return b.String()
}

func where(b *CodeBuilder, f Formatter, conditions query.Conditions) {
	b.Each(len(conditions), func(b *CodeBuilder, i int) {
		if i == 0 {
			b.Push("where ")
		} else {
			b.Push("  and ")
		}
		b.Line(condition(f, conditions[i])...)
	})
}

func condition(f Formatter, c query.Condition) []string {
	parts := []string{f.Name(c.Column()), " ", string(c.Op())}
	switch c := c.(type) {
	case query.BinaryCondition:
		parts = append(parts, " ", f.Value(c.Value))
	case query.TernaryCondition:
		parts = append(parts, " ", f.Value(c.Low), " and ", f.Value(c.High))
	}
	return parts
}

func returning(b *CodeBuilder, f Formatter, columns []string) {
	b.When(len(columns) > 0, func(b *CodeBuilder) {
		if len(columns) == 1 && columns[0] == "*" {
			b.Line("returning *")
			return
		}
		b.Push("returning ")
		b.Line(names(f, columns)...)
	})
}

// names quotes each identifier and interleaves ", " separators.
func names(f Formatter, identifiers []string) []string {
	parts := make([]string, 0, len(identifiers)*2)
	for i, id := range identifiers {
		if i > 0 {
			parts = append(parts, ", ")
		}
		parts = append(parts, f.Name(id))
	}
	return parts
}

func direction(d query.Direction) string {
	if d == query.Desc {
		return "desc"
	}
	return "asc"
}

func rowKeys(rows []query.Row) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(row query.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
