package client

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/internal/query"
)

// recorder is a Transport that records intents and replays canned results.
type recorder struct {
	selects []query.SelectQuery
	inserts []query.InsertCommand
	updates []query.UpdateCommand
	deletes []query.DeleteCommand
	calls   []query.CallCommand
	result  query.Result
	err     error
}

func (r *recorder) Select(ctx context.Context, q query.SelectQuery) (query.Result, error) {
	r.selects = append(r.selects, q)
	return r.result, r.err
}

func (r *recorder) Insert(ctx context.Context, c query.InsertCommand) (query.Result, error) {
	r.inserts = append(r.inserts, c)
	return r.result, r.err
}

func (r *recorder) Update(ctx context.Context, c query.UpdateCommand) (query.Result, error) {
	r.updates = append(r.updates, c)
	return r.result, r.err
}

func (r *recorder) Delete(ctx context.Context, c query.DeleteCommand) (query.Result, error) {
	r.deletes = append(r.deletes, c)
	return r.result, r.err
}

func (r *recorder) Call(ctx context.Context, c query.CallCommand) ([]query.Row, error) {
	r.calls = append(r.calls, c)
	return r.result.Rows, r.err
}

func testSchema() *ir.Schema {
	attrs := func(names ...string) []*ir.Attribute {
		out := make([]*ir.Attribute, len(names))
		for i, n := range names {
			out[i] = &ir.Attribute{Name: n, Order: i + 1, ApiType: ir.String()}
		}
		return out
	}
	return &ir.Schema{
		Tables: []*ir.Table{{Name: "account", ApiName: "Account", Attributes: attrs("id", "name", "age", "deleted_at")}},
		Views:  []*ir.View{{Name: "account_summary", ApiName: "AccountSummary", Attributes: attrs("id")}},
	}
}

func TestWhereNormalization(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want query.Condition
	}{
		{"equality shorthand", []any{5}, query.BinaryCondition{Col: "age", Operator: query.Eq, Value: 5}},
		{"string shorthand", []any{"Ann"}, query.BinaryCondition{Col: "age", Operator: query.Eq, Value: "Ann"}},
		{"unary", []any{"is null"}, query.UnaryCondition{Col: "age", Operator: query.IsNull}},
		{"unary ignores value", []any{query.IsNotNull, 3}, query.UnaryCondition{Col: "age", Operator: query.IsNotNull}},
		{"binary", []any{">=", 18}, query.BinaryCondition{Col: "age", Operator: query.Gte, Value: 18}},
		{"binary typed", []any{query.ILike, "a%"}, query.BinaryCondition{Col: "age", Operator: query.ILike, Value: "a%"}},
		{"between range", []any{query.Between, Range{18, 65}}, query.TernaryCondition{Col: "age", Operator: query.Between, Low: 18, High: 65}},
		{"between slice", []any{"not between", []int{1, 2}}, query.TernaryCondition{Col: "age", Operator: query.NotBetween, Low: 1, High: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(&recorder{}, nil).Table("account").SelectAll().Where("age", tt.args...)
			require.NoError(t, b.Err())
			if diff := cmp.Diff(query.Conditions{tt.want}, b.Query().Conditions); diff != "" {
				t.Errorf("conditions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWhereMisuse(t *testing.T) {
	tests := []struct {
		name string
		args []any
	}{
		{"no value", nil},
		{"too many", []any{"=", 1, 2}},
		{"binary without value", []any{"like"}},
		{"unknown operator", []any{"equals", 1}},
		{"between scalar", []any{query.Between, 5}},
		{"between without range", []any{query.Between}},
		{"nil operator with value", []any{nil, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(&recorder{}, nil).Table("account").SelectAll().Where("age", tt.args...)
			assert.ErrorIs(t, b.Err(), ErrBuilderMisuse)
			assert.Empty(t, b.Query().Conditions)
		})
	}
}

func TestSelectBuilder(t *testing.T) {
	rec := &recorder{result: query.Result{Rows: []query.Row{{"id": 1}, {"id": 2}}}}
	rows, err := New(rec, nil).Table("account").
		Select("id", "name").
		Where("name", query.ILike, "a%").
		Where("deleted_at", query.IsNull).
		OrderBy("name", query.Desc).
		Limit(10).
		Offset(20).
		Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	want := query.SelectQuery{
		Table:    "account",
		Selected: []string{"id", "name"},
		Conditions: query.Conditions{
			query.BinaryCondition{Col: "name", Operator: query.ILike, Value: "a%"},
			query.UnaryCondition{Col: "deleted_at", Operator: query.IsNull},
		},
		Limit:   query.Int(10),
		Offset:  query.Int(20),
		OrderBy: []query.OrderBySort{{Column: "name", Direction: query.Desc}},
	}
	require.Len(t, rec.selects, 1)
	if diff := cmp.Diff(want, rec.selects[0]); diff != "" {
		t.Errorf("select intent mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchOne(t *testing.T) {
	rec := &recorder{result: query.Result{Rows: []query.Row{{"id": 7}, {"id": 8}}}}
	row, err := New(rec, nil).Table("account").SelectAll().FetchOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, query.Row{"id": 7}, row)

	empty := &recorder{}
	rows, err := New(empty, nil).Table("account").SelectAll().Fetch(context.Background())
	require.NoError(t, err, "empty collection is not an error")
	assert.Empty(t, rows)

	_, err = New(empty, nil).Table("account").SelectAll().FetchOne(context.Background())
	require.ErrorIs(t, err, ErrNoResult)
	var nr *NoResultError
	require.True(t, errors.As(err, &nr))
	assert.Equal(t, "account", nr.Table)
}

func TestBuilderRejectsMutationAfterTerminalCall(t *testing.T) {
	rec := &recorder{}
	b := New(rec, nil).Table("account").SelectAll().Where("id", 1)
	_, err := b.Fetch(context.Background())
	require.NoError(t, err)

	before := b.Query()
	b.Where("name", "Ann").Limit(1).OrderBy("id", query.Asc)
	assert.ErrorIs(t, b.Err(), ErrBuilderMisuse)
	if diff := cmp.Diff(before, b.Query()); diff != "" {
		t.Errorf("finalized intent changed (-before +after):\n%s", diff)
	}

	_, err = b.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrBuilderMisuse)
	assert.Len(t, rec.selects, 1, "second terminal call must not reach the transport")
}

func TestBuilderErrorStopsTerminalCall(t *testing.T) {
	rec := &recorder{}
	_, err := New(rec, nil).Table("account").SelectAll().Limit(-1).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrBuilderMisuse)
	assert.Empty(t, rec.selects)
}

func TestTransportFailurePropagatesUnchanged(t *testing.T) {
	boom := errors.New("connection refused")
	rec := &recorder{err: boom}
	_, err := New(rec, nil).Table("account").SelectAll().Fetch(context.Background())
	assert.Same(t, boom, err)

	_, err = New(rec, nil).Table("account").Delete().Execute(context.Background())
	assert.Same(t, boom, err)
}

func TestInsert(t *testing.T) {
	rec := &recorder{result: query.Result{RowsAffected: 1}}
	n, err := New(rec, nil).Table("account").Insert(query.Row{"name": "Ann"}).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []query.Row{{"name": "Ann"}}, rec.inserts[0].Rows)
	assert.Nil(t, rec.inserts[0].Returning)
}

func TestInsertRowsReturning(t *testing.T) {
	rec := &recorder{result: query.Result{RowsAffected: 2, Rows: []query.Row{{"id": 1}, {"id": 2}}}}
	base := New(rec, nil).Table("account").
		InsertRows([]string{"name", "age"}, []query.Row{{"name": "Ann", "age": 30}, {"name": "Bob"}})
	ret := base.Returning("id")

	rows, err := ret.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	cmd := rec.inserts[0]
	assert.Equal(t, []string{"name", "age"}, cmd.Columns)
	assert.Equal(t, []string{"id"}, cmd.Returning)

	_, err = base.Execute(context.Background())
	assert.ErrorIs(t, err, ErrBuilderMisuse, "base builder is closed once its returning variant exists")
}

func TestInsertRowsMisuse(t *testing.T) {
	table := New(&recorder{}, nil).Table("account")
	assert.ErrorIs(t, table.InsertRows(nil, []query.Row{{}}).Err(), ErrBuilderMisuse)
	assert.ErrorIs(t, table.InsertRows([]string{"name"}, nil).Err(), ErrBuilderMisuse)
	assert.ErrorIs(t, table.InsertRows([]string{"name"}, []query.Row{{"age": 1}}).Err(), ErrBuilderMisuse)
}

func TestReturningAll(t *testing.T) {
	rec := &recorder{}
	_, err := New(rec, nil).Table("account").Delete().Where("id", 3).Returning().Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, rec.deletes[0].Returning)
	assert.Len(t, rec.deletes[0].Conditions, 1)
}

func TestUpdate(t *testing.T) {
	rec := &recorder{result: query.Result{Rows: []query.Row{{"id": 3, "name": "Cy"}}}}
	row, err := New(rec, nil).Table("account").
		Update(query.Row{"name": "Cy"}).
		Returning("id", "name").
		Where("id", 3).
		FetchOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, query.Row{"id": 3, "name": "Cy"}, row)

	cmd := rec.updates[0]
	assert.Equal(t, query.Row{"name": "Cy"}, cmd.Set)
	assert.Equal(t, query.Conditions{query.BinaryCondition{Col: "id", Operator: query.Eq, Value: 3}}, cmd.Conditions)

	_, err = New(rec, nil).Table("account").Update(query.Row{}).Execute(context.Background())
	assert.ErrorIs(t, err, ErrBuilderMisuse)
}

func TestSchemaChecksColumns(t *testing.T) {
	c := New(&recorder{}, testSchema())

	assert.ErrorIs(t, c.Table("account").Select("nope").Err(), ErrBuilderMisuse)
	assert.ErrorIs(t, c.Table("account").SelectAll().Where("nope", 1).Err(), ErrBuilderMisuse)
	assert.ErrorIs(t, c.Table("account").Update(query.Row{"nope": 1}).Err(), ErrBuilderMisuse)
	assert.NoError(t, c.Table("account").Select("id").Where("name", "Ann").Err())
	assert.NoError(t, c.Table("account").Delete().Returning("*").Err())

	assert.ErrorIs(t, c.Table("account_summary").Insert(query.Row{"id": 1}).Err(), ErrBuilderMisuse, "view is not insertable")
}

func TestFunctionCall(t *testing.T) {
	rec := &recorder{result: query.Result{Rows: []query.Row{{"add": 3}}}}
	fn := New(rec, nil).Function("add")

	row, err := fn.CallOne(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, query.Row{"add": 3}, row)
	assert.Equal(t, query.CallCommand{Procedure: "add", Parameters: []any{1, 2}}, rec.calls[0])

	rec.result.Rows = nil
	_, err = fn.CallOne(context.Background())
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestDecode(t *testing.T) {
	type account struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	got, err := Decode[account]([]query.Row{{"id": int64(9007199254740993), "name": "Ann"}})
	require.NoError(t, err)
	assert.Equal(t, []account{{ID: 9007199254740993, Name: "Ann"}}, got)

	row, err := Encode(account{ID: 9007199254740993, Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "9007199254740993", row["id"].(interface{ String() string }).String())

	one, err := DecodeOne[account](row)
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), one.ID)
}
