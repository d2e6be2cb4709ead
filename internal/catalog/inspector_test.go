package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Inspector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInspector(db), mock
}

func TestInspectorEnums(t *testing.T) {
	inspector, mock := newMock(t)
	mock.ExpectQuery("FROM pg_catalog.pg_enum").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"typname", "enumlabel", "enumsortorder"}).
			AddRow("mood", "sad", 1.0).
			AddRow("mood", "happy", 2.0).
			AddRow("status", "open", 1.0))

	got, err := inspector.Enums(context.Background(), "public")
	require.NoError(t, err)

	want := []EnumRow{
		{Name: "mood", Labels: []EnumLabel{{"sad", 1}, {"happy", 2}}},
		{Name: "status", Labels: []EnumLabel{{"open", 1}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Enums mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorTables(t *testing.T) {
	inspector, mock := newMock(t)
	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("account").AddRow("empty"))
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "BASE TABLE").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "ordinal_position", "data_type", "udt", "nullable"}).
			AddRow("account", "id", 1, "integer", "int4", false).
			AddRow("account", "email", 2, "USER-DEFINED", "email", true).
			AddRow("account", "tags", 3, "ARRAY", "_text", true))

	got, err := inspector.Tables(context.Background(), "public")
	require.NoError(t, err)

	want := []TableRow{
		{Name: "account", Columns: []AttributeRow{
			{Name: "id", Order: 1, Type: "integer", Udt: "int4"},
			{Name: "email", Order: 2, Type: "USER-DEFINED", Udt: "email", Nullable: true},
			{Name: "tags", Order: 3, Type: "ARRAY", Udt: "_text", Nullable: true},
		}},
		{Name: "empty"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tables mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorViews(t *testing.T) {
	inspector, mock := newMock(t)
	mock.ExpectQuery("FROM information_schema.views").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "updatable", "insertable"}).
			AddRow("active_account", true, false))
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "VIEW").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "ordinal_position", "data_type", "udt", "nullable"}).
			AddRow("active_account", "id", 1, "integer", "int4", true))

	got, err := inspector.Views(context.Background(), "public")
	require.NoError(t, err)

	want := []ViewRow{{
		Name:      "active_account",
		Updatable: true,
		Columns:   []AttributeRow{{Name: "id", Order: 1, Type: "integer", Udt: "int4", Nullable: true}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Views mismatch (-want +got):\n%s", diff)
	}
}

func TestInspectorDomains(t *testing.T) {
	inspector, mock := newMock(t)
	mock.ExpectQuery("t.typtype = 'd'").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"typname", "base", "typnotnull", "comment"}).
			AddRow("email", "text", false, "").
			AddRow("work_email", "email", true, "company address"))

	got, err := inspector.Domains(context.Background(), "public")
	require.NoError(t, err)

	want := []DomainRow{
		{Name: "email", BaseType: "text"},
		{Name: "work_email", BaseType: "email", NotNull: true, Comment: "company address"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Domains mismatch (-want +got):\n%s", diff)
	}
}

func TestInspectorFunctions(t *testing.T) {
	inspector, mock := newMock(t)
	mock.ExpectQuery("FROM information_schema.routines").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"specific_name", "routine_name", "data_type", "udt", "proretset"}).
			AddRow("add_1001", "add", "integer", "int4", false).
			AddRow("touch_1002", "touch", "void", "void", false))
	mock.ExpectQuery("FROM information_schema.parameters").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"specific_name", "parameter_name", "ordinal_position", "data_type", "udt"}).
			AddRow("add_1001", "a", 1, "integer", "int4").
			AddRow("add_1001", "b", 2, "integer", "int4"))

	got, err := inspector.Functions(context.Background(), "public")
	require.NoError(t, err)

	want := []FunctionRow{
		{Name: "add", Type: "integer", Udt: "int4", Parameters: []AttributeRow{
			{Name: "a", Order: 1, Type: "integer", Udt: "int4"},
			{Name: "b", Order: 2, Type: "integer", Udt: "int4"},
		}},
		{Name: "touch", Type: "void", Udt: "void"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Functions mismatch (-want +got):\n%s", diff)
	}
}

func TestInspectorQueryError(t *testing.T) {
	inspector, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("t.typtype = 'd'").WithArgs("public").WillReturnError(boom)

	_, err := inspector.Domains(context.Background(), "public")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}
