package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"taskmanager/internal/adapter/database"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/port"
	tel "taskmanager/internal/core/telemetry"
)

const usersTable = "users"

var userColumns = []string{"id", "uuid", "username", "encrypted_password", "created_at", "updated_at"}

type UserRepository struct {
	db        *database.DB
	scanner   *database.Scanner
	telemetry port.Telemetry
}

func NewUserRepository(db *database.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		scanner:   database.NewScanner(),
		telemetry: telemetry,
	}
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	ctx, obs := observe(ctx, ur.telemetry, ur.db, "GetByUsername", usersTable, nil)

	user, err := ur.getBy(ctx, ur.db.DB, sq.Eq{"username": username})

	return user, obs.done(err)
}

// Create inserts user. A taken username surfaces as domain.ErrConflict.
func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	uid := user.UUID.String()

	ctx, obs := observe(ctx, ur.telemetry, ur.db, "Create", usersTable, map[string]interface{}{
		"db.operation": "INSERT",
		"user.uuid":    uid,
	})

	tx, err := ur.db.BeginTx(ctx, nil)

	if err != nil {
		slog.Error("User#Create", "begin", err)
		return domain.User{}, obs.done(err)
	}

	defer tx.Rollback()

	query := ur.db.QueryBuilder.Insert(usersTable).
		Columns("uuid", "username", "encrypted_password", "created_at", "updated_at").
		Values(uid, user.Username, user.EncryptedPassword, utc(user.CreatedAt), utc(user.UpdatedAt))

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, obs.done(err)
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "Create", usersTable, stmt, args)

	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return domain.User{}, obs.done(database.MapError(err, "user"))
	}

	saved, err := ur.getBy(ctx, tx, sq.Eq{"uuid": uid})

	if err != nil {
		return domain.User{}, obs.done(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, obs.done(database.MapError(err, "user"))
	}

	ur.telemetry.RecordBusinessEvent(ctx, "user.registered", "user", uid, nil)

	return saved, obs.done(nil)
}

func (ur *UserRepository) getBy(ctx context.Context, q queryer, where sq.Eq) (domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	rows, err := q.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.User{}, err
	}

	defer rows.Close()

	var user domain.User

	if err := ur.scanner.ScanRowToStruct(rows, &user); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.NotFoundf("user not found")
		}

		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}

	return user, nil
}
