package grimo_test

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/errilaz/grimo"
	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/testutil"
)

const fixture = `
create type mood as enum ('happy', 'sad');
create domain email as text not null check (value like '%@%');
create type address as (street text, city text);

create table account (
    id bigint generated always as identity primary key,
    name text,
    contact email,
    mood mood,
    tags text[] not null default '{}',
    home address,
    score numeric,
    created_at timestamptz not null default now()
);

create view happy_account as select id, name from account where mood = 'happy';

create function add_points(a integer, b integer) returns integer
    language sql as 'select a + b';

create function accounts_named(pattern text) returns setof account
    language sql as 'select * from account where name ilike pattern';

create function touch() returns void
    language sql as '';
`

type account struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
	Mood *string `json:"mood"`
}

func TestDiscoverAndQuery(t *testing.T) {
	ctx := context.Background()
	pg := testutil.SetupPostgresContainer(ctx, t)
	pg.Exec(ctx, t, fixture)

	schema, err := grimo.DiscoverDB(ctx, pg.Conn, grimo.DiscoverOptions{})
	require.NoError(t, err)

	t.Run("schema graph", func(t *testing.T) {
		assert.Equal(t, "public", schema.Name)

		mood := schema.Enum("mood")
		require.NotNil(t, mood)
		require.Len(t, mood.Fields, 2)
		assert.Equal(t, "happy", mood.Fields[0].Name)

		tbl := schema.Table("account")
		require.NotNil(t, tbl)
		assert.Equal(t, []string{"id", "name", "contact", "mood", "tags", "home", "score", "created_at"}, tbl.Columns())

		want := map[string]struct {
			typ      ir.ApiType
			nullable bool
		}{
			"id":         {ir.Bigint(), false},
			"name":       {ir.String(), true},
			"contact":    {ir.String(), false},
			"mood":       {ir.EnumRef("Mood"), true},
			"tags":       {ir.ArrayOf(ir.String()), false},
			"home":       {ir.InterfaceRef("Address"), true},
			"score":      {ir.String(), true},
			"created_at": {ir.Date(), false},
		}
		for name, w := range want {
			a := tbl.Attribute(name)
			require.NotNil(t, a, name)
			assert.True(t, w.typ.Equal(a.ApiType), "%s: got %s, want %s", name, a.ApiType, w.typ)
			assert.Equal(t, w.nullable, a.Nullable, name)
		}

		view := schema.View("happy_account")
		require.NotNil(t, view)
		assert.True(t, view.Updatable)

		add := schema.Function("add_points")
		require.NotNil(t, add)
		require.NotNil(t, add.ReturnType)
		assert.Equal(t, ir.KindNumber, add.ReturnType.Kind)
		assert.Len(t, add.Parameters, 2)

		named := schema.Function("accounts_named")
		require.NotNil(t, named)
		assert.True(t, named.ReturnsSet)
		assert.True(t, ir.InterfaceRef("Account").Equal(*named.ReturnType))

		touch := schema.Function("touch")
		require.NotNil(t, touch)
		assert.Nil(t, touch.ReturnType)
	})

	t.Run("local and remote clients", func(t *testing.T) {
		local := grimo.NewDB(pg.Conn)
		srv := httptest.NewServer(grimo.Handler(local, "/api"))
		defer srv.Close()

		for name, tr := range map[string]grimo.Transport{
			"local":  local,
			"remote": grimo.NewRemote(srv.URL+"/api", srv.Client()),
		} {
			t.Run(name, func(t *testing.T) {
				c := grimo.New(tr, schema)
				accounts := c.Table("account")

				inserted, err := accounts.Insert(grimo.Row{"name": name, "contact": name + "@example.com", "mood": "happy"}).
					Returning("id").
					FetchOne(ctx)
				require.NoError(t, err)
				require.Contains(t, inserted, "id")

				rows, err := accounts.Select("id", "name", "mood").
					Where("name", name).
					Fetch(ctx)
				require.NoError(t, err)
				got, err := grimo.Decode[account](rows)
				require.NoError(t, err)
				require.Len(t, got, 1)
				assert.Equal(t, name, *got[0].Name)

				n, err := accounts.Update(grimo.Row{"mood": "sad"}).Where("name", name).Execute(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)

				_, err = c.Table("happy_account").SelectAll().Where("name", name).FetchOne(ctx)
				assert.True(t, errors.Is(err, grimo.ErrNoResult), "got %v", err)

				sum, err := c.Function("add_points").CallOne(ctx, 2, 3)
				require.NoError(t, err)
				assert.EqualValues(t, "5", toString(sum["add_points"]))

				n, err = accounts.Delete().Where("name", name).Execute(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)
			})
		}
	})
}

func toString(v any) string {
	return fmt.Sprint(v)
}
