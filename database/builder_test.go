package database_test

import (
	"ashtray_server/database"
	"ashtray_server/database/dbtest"
	"ashtray_server/structs/tables"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBuilderAgainstPostgres(t *testing.T) {
	db := dbtest.StartPostgres(t)
	ctx := context.Background()

	for _, name := range []string{"Crystal ashtray", "Brass ashtray", "Glass lighter"} {
		p := &tables.Product{Name: name, Price: decimal.RequireFromString("9.99"), Active: name != "Glass lighter"}
		_, err := db.NewInsert().Model(p).Exec(ctx)
		require.NoError(t, err)
	}

	t.Run("filters and orders", func(t *testing.T) {
		rows, err := database.Query[tables.Product](db).
			Where("active", true).
			OrderBy("name", database.ASC).
			All(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Brass ashtray", rows[0].Name)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		count, err := database.Query[tables.Product](db).Search("name", "ASHTRAY").Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("first returns nil when nothing matches", func(t *testing.T) {
		p, err := database.Query[tables.Product](db).Where("name", "missing").First(ctx)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("paginate", func(t *testing.T) {
		page, err := database.Paginate(ctx, database.Query[tables.Product](db).OrderBy("name", database.ASC), 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, page.Pagination.Total)
		assert.Equal(t, 2, page.Pagination.TotalPages)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "Glass lighter", page.Data[0].Name)
	})
}
