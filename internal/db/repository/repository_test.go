package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	// A single connection keeps the private in-memory database alive for
	// the duration of the test.
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, table := range []interface{}{
		(*models.User)(nil),
		(*models.APIKey)(nil),
		(*models.UsageEvent)(nil),
	} {
		_, err := db.NewCreateTable().Model(table).Exec(ctx)
		require.NoError(t, err)
	}

	return db
}
