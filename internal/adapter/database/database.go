package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is the handle shared by every repository regardless of driver.
type DB struct {
	*sql.DB
	QueryBuilder squirrel.StatementBuilderType
	Dialect      Dialect

	closers []func()
}

func New(sqlDB *sql.DB, dialect Dialect, closers ...func()) *DB {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question

	if dialect == DialectPostgres {
		placeholder = squirrel.Dollar
	}

	return &DB{
		DB:           sqlDB,
		QueryBuilder: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		Dialect:      dialect,
		closers:      closers,
	}
}

func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	err := db.DB.Close()

	for _, closer := range db.closers {
		closer()
	}

	if errors.Is(err, sql.ErrConnDone) {
		return nil
	}

	return err
}
