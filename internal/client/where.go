package client

import (
	"reflect"

	"github.com/errilaz/grimo/internal/query"
)

// Range is the value of a between-family condition.
type Range struct {
	Low  any
	High any
}

// newCondition normalizes Where arguments into one condition:
//
//	Where(col, value)            col = value
//	Where(col, unaryOp[, _])     col <op>
//	Where(col, binaryOp, value)  col <op> value
//	Where(col, betweenOp, rng)   col <op> low and high
//
// A value that spells an operator is read as the operator; pass query.Eq
// explicitly to compare against such a string.
func newCondition(column string, args []any) (query.Condition, string) {
	if len(args) == 0 || len(args) > 2 {
		return nil, "expected a value, or an operator and a value"
	}

	op, known := query.Lookup(args[0])
	if !known {
		if len(args) == 2 {
			return nil, "unknown operator " + describe(args[0])
		}
		return query.BinaryCondition{Col: column, Operator: query.Eq, Value: args[0]}, ""
	}

	arity, _ := op.Arity()
	switch arity {
	case query.Unary:
		return query.UnaryCondition{Col: column, Operator: op}, ""
	case query.Binary:
		if len(args) < 2 {
			return nil, "operator " + describe(op) + " requires a value"
		}
		return query.BinaryCondition{Col: column, Operator: op, Value: args[1]}, ""
	default:
		if len(args) < 2 {
			return nil, "operator " + describe(op) + " requires a range"
		}
		low, high, ok := bounds(args[1])
		if !ok {
			return nil, "operator " + describe(op) + " requires a Range or a two-element slice"
		}
		return query.TernaryCondition{Col: column, Operator: op, Low: low, High: high}, ""
	}
}

func bounds(v any) (any, any, bool) {
	switch r := v.(type) {
	case Range:
		return r.Low, r.High, true
	case *Range:
		if r == nil {
			return nil, nil, false
		}
		return r.Low, r.High, true
	}
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == 2 {
		return rv.Index(0).Interface(), rv.Index(1).Interface(), true
	}
	return nil, nil, false
}

func describe(v any) string {
	if v == nil {
		return "nil"
	}
	if s, ok := v.(string); ok {
		return `"` + s + `"`
	}
	if op, ok := v.(query.Operator); ok {
		return `"` + string(op) + `"`
	}
	return reflect.TypeOf(v).String()
}
