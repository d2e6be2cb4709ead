package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/errilaz/grimo/internal/query"
)

// Decode converts untyped rows into T, matching columns to T's json tags.
// Generated adapters use it to give rows a concrete type.
func Decode[T any](rows []query.Row) ([]T, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rows: %w", err)
	}
	out := make([]T, 0, len(rows))
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode rows into %T: %w", *new(T), err)
	}
	return out, nil
}

// DecodeOne converts one untyped row into T.
func DecodeOne[T any](row query.Row) (T, error) {
	var out T
	data, err := json.Marshal(row)
	if err != nil {
		return out, fmt.Errorf("failed to encode row: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode row into %T: %w", out, err)
	}
	return out, nil
}

// Encode converts a typed value into an untyped row. Numbers are kept as
// json.Number so large integers survive.
func Encode(v any) (query.Row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var row query.Row
	if err := dec.Decode(&row); err != nil {
		return nil, fmt.Errorf("failed to decode %T as a row: %w", v, err)
	}
	return row, nil
}
