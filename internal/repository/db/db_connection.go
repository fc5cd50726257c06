package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/CHOJUNGHO96/algo-reference/internal/config"
	"github.com/CHOJUNGHO96/algo-reference/internal/logger"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const (
	sqliteDriverName   = "sqlite"
	postgresDriverName = "pgx"
)

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// Open connects to the configured database, applies pool limits, runs pending
// migrations and pings it.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = openSQLite(ctx, cfg)
	case config.DriverPostgres:
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db, cfg.Driver, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

func openSQLite(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, sqliteDSN(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", cfg.DSN, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	var fk int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys;").Scan(&fk); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read PRAGMA foreign_keys: %w", err)
	}
	if fk != 1 {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite foreign keys are disabled for %q", cfg.DSN)
	}
	return db, nil
}

// sqliteDSN attaches connection pragmas so every pooled connection gets them,
// and makes write transactions take the lock up front.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join([]string{
		"_pragma=journal_mode(WAL)",
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_txlock=immediate",
	}, "&")
}

func openPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open(postgresDriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Migrate applies the embedded migrations for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string, log *logger.Logger) error {
	dialect, dir := "sqlite3", "migrations/sqlite"
	if driver == config.DriverPostgres {
		dialect, dir = "postgres", "migrations/postgres"
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	if log != nil {
		goose.SetLogger(gooseLogger{log})
	} else {
		goose.SetLogger(goose.NopLogger())
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect %q: %w", dialect, err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through the application logger.
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...any) { l.log.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.log.Fatalf(format, v...) }
