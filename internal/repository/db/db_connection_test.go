package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CHOJUNGHO96/algo-reference/internal/config"
	"github.com/CHOJUNGHO96/algo-reference/internal/logger"
)

func sqliteConfig(t *testing.T) config.DBConfig {
	return config.DBConfig{
		Driver:          config.DriverSQLite,
		DSN:             filepath.Join(t.TempDir(), "open_test.db"),
		MaxOpenConns:    2,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}
}

func TestOpen_SQLiteAppliesMigrationsIdempotently(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	db, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "categories", "difficulty_levels", "programming_languages", "algorithms", "code_templates"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys;").Scan(&fk))
	require.Equal(t, 1, fk)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DBConfig{Driver: "oracle", DSN: "x"}, nil)
	require.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t,
		"a.db?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		sqliteDSN("a.db"))
	require.Equal(t,
		"file:a.db?cache=shared&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		sqliteDSN("file:a.db?cache=shared"))
}
