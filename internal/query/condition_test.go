package query

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorArity(t *testing.T) {
	tests := []struct {
		op   Operator
		want Arity
	}{
		{IsNull, Unary},
		{IsNotUnknown, Unary},
		{Eq, Binary},
		{NotIMatch, Binary},
		{StartsWith, Binary},
		{Between, Ternary},
		{NotBetweenSymmetric, Ternary},
	}
	for _, tt := range tests {
		got, ok := tt.op.Arity()
		assert.True(t, ok, string(tt.op))
		assert.Equal(t, tt.want, got, string(tt.op))
	}

	_, ok := Operator("equals").Arity()
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	op, ok := Lookup("ilike")
	assert.True(t, ok)
	assert.Equal(t, ILike, op)

	_, ok = Lookup(42)
	assert.False(t, ok)

	_, ok = Lookup("Alice")
	assert.False(t, ok)
}

func TestSelectQueryJSON(t *testing.T) {
	in := `{
		"table": "account",
		"selected": ["id", "name"],
		"conditions": [
			{"arity": 1, "column": "deleted_at", "operator": "is null"},
			{"arity": 2, "column": "name", "operator": "ilike", "value": "a%"},
			{"arity": 3, "column": "age", "operator": "between", "value": [18, 65]}
		],
		"limit": 10,
		"orderBy": [{"column": "name", "direction": "desc"}]
	}`

	var q SelectQuery
	require.NoError(t, json.Unmarshal([]byte(in), &q))

	want := SelectQuery{
		Table:    "account",
		Selected: []string{"id", "name"},
		Conditions: Conditions{
			UnaryCondition{Col: "deleted_at", Operator: IsNull},
			BinaryCondition{Col: "name", Operator: ILike, Value: "a%"},
			TernaryCondition{Col: "age", Operator: Between, Low: json.Number("18"), High: json.Number("65")},
		},
		Limit:   Int(10),
		OrderBy: []OrderBySort{{Column: "name", Direction: Desc}},
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Fatalf("decoded query mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(q)
	require.NoError(t, err)

	var again SelectQuery
	require.NoError(t, json.Unmarshal(out, &again))
	if diff := cmp.Diff(q, again); diff != "" {
		t.Errorf("re-encoded query mismatch (-first +second):\n%s", diff)
	}
}

func TestBinaryConditionKeepsNullValue(t *testing.T) {
	out, err := json.Marshal(BinaryCondition{Col: "a", Operator: IsDistinctFrom, Value: nil})
	require.NoError(t, err)
	assert.JSONEq(t, `{"arity":2,"column":"a","operator":"is distinct from","value":null}`, string(out))
}

func TestConditionsRejectMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown operator", `[{"column":"a","operator":"equals","value":1}]`},
		{"binary without value", `[{"column":"a","operator":"="}]`},
		{"ternary with scalar", `[{"column":"a","operator":"between","value":1}]`},
		{"arity mismatch", `[{"arity":1,"column":"a","operator":"=","value":1}]`},
		{"missing column", `[{"operator":"is null"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cs Conditions
			assert.Error(t, json.Unmarshal([]byte(tt.in), &cs))
		})
	}
}
