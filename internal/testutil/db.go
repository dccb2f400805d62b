package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"trezzy/internal/datastore"
)

// GetEmptyTestDB returns a migrated in-memory database private to the test.
// Setting RUN_INTEGRATION_TEST and DB_DSN switches to postgres.
func GetEmptyTestDB(t *testing.T) *bun.DB {
	t.Helper()

	var db *bun.DB
	if EnableIntegrationTest() {
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(os.Getenv("DB_DSN")),
			pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
		))
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		sqldb, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
		require.NoError(t, err)
		// one connection keeps the in-memory database alive and serializes writers
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}
	t.Cleanup(func() { db.Close() })

	require.NoError(t, datastore.CreateTables(context.Background(), db))
	return db
}

func GetTestRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func EnableIntegrationTest() bool {
	return len(os.Getenv("RUN_INTEGRATION_TEST")) > 0 && len(os.Getenv("DB_DSN")) > 0
}
