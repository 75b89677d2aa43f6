package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	gosqlite "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"taskmanager/internal/adapter/database"
	"taskmanager/internal/core/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	MemoryPath = ":memory:"

	// DriverName is go-sqlite3 with lower() replaced by a Unicode-aware
	// version. The builtin folds ASCII only.
	DriverName = "sqlite3_taskmanager"
)

func init() {
	sql.Register(DriverName, &gosqlite.SQLiteDriver{
		ConnectHook: func(conn *gosqlite.SQLiteConn) error {
			return conn.RegisterFunc("lower", domain.FoldCase, true)
		},
	})
}

type Config struct {
	Path       string
	LogQueries bool
	// QueryLog receives SQL logs when LogQueries is set.
	QueryLog io.Writer
}

// Open connects, migrates and returns the database. An in-memory database is
// limited to one connection; every connection would otherwise see its own
// empty database.
func Open(cfg Config) (*database.DB, error) {
	dsn := cfg.Path

	if dsn == "" {
		dsn = "database.db"
	}

	inMemory := dsn == MemoryPath

	if !inMemory && !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000&_foreign_keys=on"
	}

	sqlDB, err := otelsql.Open(DriverName, dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("taskmanager"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if cfg.LogQueries && cfg.QueryLog != nil {
		logger := zerolog.New(cfg.QueryLog).With().Timestamp().Logger().Level(zerolog.DebugLevel)
		traced := sqlDB
		sqlDB = sqldblogger.OpenDriver(dsn, traced.Driver(), zerologadapter.New(logger),
			sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
		)
		traced.Close()
	}

	if inMemory {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	db := database.New(sqlDB, database.DialectSQLite)

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the embedded migrations. The migrate instance is left
// open: closing it would close db as well.
func RunMigrations(db *database.DB) error {
	source, err := iofs.New(migrations, "migrations")

	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
