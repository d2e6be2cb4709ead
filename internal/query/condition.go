package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Condition is one WHERE predicate. It is implemented only by
// UnaryCondition, BinaryCondition and TernaryCondition.
type Condition interface {
	Arity() Arity
	Column() string
	Op() Operator
	condition()
}

// UnaryCondition tests a column without a value, e.g. `is null`.
type UnaryCondition struct {
	Col      string
	Operator Operator
}

// BinaryCondition compares a column to exactly one value.
type BinaryCondition struct {
	Col      string
	Operator Operator
	Value    any
}

// TernaryCondition compares a column to a range, e.g. `between`.
type TernaryCondition struct {
	Col      string
	Operator Operator
	Low      any
	High     any
}

func (UnaryCondition) Arity() Arity   { return Unary }
func (BinaryCondition) Arity() Arity  { return Binary }
func (TernaryCondition) Arity() Arity { return Ternary }

func (c UnaryCondition) Column() string   { return c.Col }
func (c BinaryCondition) Column() string  { return c.Col }
func (c TernaryCondition) Column() string { return c.Col }

func (c UnaryCondition) Op() Operator   { return c.Operator }
func (c BinaryCondition) Op() Operator  { return c.Operator }
func (c TernaryCondition) Op() Operator { return c.Operator }

func (UnaryCondition) condition()   {}
func (BinaryCondition) condition()  {}
func (TernaryCondition) condition() {}

// wireCondition is the JSON shape shared by all conditions. A ternary
// condition carries [low, high] in Value.
type wireCondition struct {
	Arity    Arity    `json:"arity"`
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
}

func (c UnaryCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCondition{Arity: Unary, Column: c.Col, Operator: c.Operator})
}

func (c BinaryCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Arity    Arity    `json:"arity"`
		Column   string   `json:"column"`
		Operator Operator `json:"operator"`
		Value    any      `json:"value"`
	}{Binary, c.Col, c.Operator, c.Value})
}

func (c TernaryCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCondition{Arity: Ternary, Column: c.Col, Operator: c.Operator, Value: []any{c.Low, c.High}})
}

// Conditions is an AND-joined list of predicates.
type Conditions []Condition

// UnmarshalJSON decodes each element by its arity tag.
func (cs *Conditions) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Conditions, 0, len(raw))
	for i, msg := range raw {
		c, err := decodeCondition(msg)
		if err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

func decodeCondition(msg json.RawMessage) (Condition, error) {
	var w struct {
		Arity    Arity           `json:"arity"`
		Column   string          `json:"column"`
		Operator Operator        `json:"operator"`
		Value    json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(msg, &w); err != nil {
		return nil, err
	}
	if w.Column == "" {
		return nil, fmt.Errorf("missing column")
	}
	arity, ok := w.Operator.Arity()
	if !ok {
		return nil, fmt.Errorf("unknown operator %q", w.Operator)
	}
	if w.Arity != 0 && w.Arity != arity {
		return nil, fmt.Errorf("operator %q has arity %d, got %d", w.Operator, arity, w.Arity)
	}

	switch arity {
	case Unary:
		return UnaryCondition{Col: w.Column, Operator: w.Operator}, nil
	case Binary:
		if len(w.Value) == 0 {
			return nil, fmt.Errorf("operator %q requires a value", w.Operator)
		}
		var v any
		if err := decodeValue(w.Value, &v); err != nil {
			return nil, err
		}
		return BinaryCondition{Col: w.Column, Operator: w.Operator, Value: v}, nil
	default:
		var pair []any
		if err := decodeValue(w.Value, &pair); err != nil || len(pair) != 2 {
			return nil, fmt.Errorf("operator %q requires a [low, high] value", w.Operator)
		}
		return TernaryCondition{Col: w.Column, Operator: w.Operator, Low: pair[0], High: pair[1]}, nil
	}
}

// decodeValue keeps numbers as json.Number so large integers stay exact.
func decodeValue(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
