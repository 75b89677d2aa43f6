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

const tasksTable = "tasks"

var taskColumns = []string{"id", "uuid", "title", "description", "status", "created_at", "updated_at"}

type TaskRepository struct {
	db        *database.DB
	scanner   *database.Scanner
	telemetry port.Telemetry
}

func NewTaskRepository(db *database.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		scanner:   database.NewScanner(),
		telemetry: telemetry,
	}
}

func (tr *TaskRepository) FindAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	ctx, obs := observe(ctx, tr.telemetry, tr.db, "FindAll", tasksTable, map[string]interface{}{
		"filter.status": filter.Status.String(),
		"filter.search": filter.Search != "",
	})

	query := tr.db.QueryBuilder.Select(taskColumns...).
		From(tasksTable).
		OrderBy("id ASC")

	if filter.Status != "" {
		query = query.Where(sq.Eq{"status": filter.Status.String()})
	}

	if filter.Search != "" {
		pattern := containsPattern(filter.Search)

		query = query.Where(sq.Or{
			sq.Expr(`LOWER(title) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(description) LIKE ? ESCAPE '\'`, pattern),
		})
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, obs.done(err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "FindAll", tasksTable, stmt, args)

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, obs.done(err)
	}

	defer rows.Close()

	tasks := make([]domain.Task, 0)

	if err := tr.scanner.ScanRowsToSlice(rows, &tasks); err != nil {
		return nil, obs.done(err)
	}

	obs.span.SetAttributes(map[string]interface{}{"db.rows_returned": len(tasks)})

	return tasks, obs.done(nil)
}

func (tr *TaskRepository) GetByUUID(ctx context.Context, uid string) (domain.Task, error) {
	ctx, obs := observe(ctx, tr.telemetry, tr.db, "GetByUUID", tasksTable, map[string]interface{}{
		"task.uuid": uid,
	})

	task, err := tr.getByUUID(ctx, tr.db.DB, uid)

	if err != nil {
		return domain.Task{}, obs.done(err)
	}

	return task, obs.done(nil)
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, obs := observe(ctx, tr.telemetry, tr.db, "Create", tasksTable, map[string]interface{}{
		"db.operation": "INSERT",
		"task.uuid":    task.UUID.String(),
	})

	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		slog.Error("Task#Create", "begin", err)
		return domain.Task{}, obs.done(err)
	}

	defer tx.Rollback()

	query := tr.db.QueryBuilder.Insert(tasksTable).
		Columns("uuid", "title", "description", "status", "created_at", "updated_at").
		Values(task.UUID.String(), task.Title, task.Description, task.StatusOrDefault().String(), utc(task.CreatedAt), utc(task.UpdatedAt))

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, obs.done(err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", tasksTable, stmt, args)

	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return domain.Task{}, obs.done(database.MapError(err, "task"))
	}

	saved, err := tr.getByUUID(ctx, tx, task.UUID.String())

	if err != nil {
		return domain.Task{}, obs.done(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, obs.done(err)
	}

	tr.telemetry.RecordBusinessEvent(ctx, "task.created", "task", saved.UUID.String(), map[string]interface{}{
		"status": saved.Status.String(),
	})

	return saved, obs.done(nil)
}

func (tr *TaskRepository) UpdateStatusByUUID(ctx context.Context, task domain.Task) (domain.Task, error) {
	uid := task.UUID.String()

	ctx, obs := observe(ctx, tr.telemetry, tr.db, "UpdateStatusByUUID", tasksTable, map[string]interface{}{
		"db.operation": "UPDATE",
		"task.uuid":    uid,
		"task.status":  task.Status.String(),
	})

	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.Task{}, obs.done(err)
	}

	defer tx.Rollback()

	previous, err := tr.getByUUID(ctx, tx, uid)

	if err != nil {
		return domain.Task{}, obs.done(err)
	}

	query := tr.db.QueryBuilder.Update(tasksTable).
		Set("status", task.Status.String()).
		Set("updated_at", utc(task.UpdatedAt)).
		Where(sq.Eq{"uuid": uid})

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, obs.done(err)
	}

	result, err := tx.ExecContext(ctx, stmt, args...)

	if err != nil {
		return domain.Task{}, obs.done(database.MapError(err, "task"))
	}

	if affected, err := result.RowsAffected(); err != nil {
		return domain.Task{}, obs.done(err)
	} else if affected == 0 {
		return domain.Task{}, obs.done(taskNotFound(uid))
	}

	saved, err := tr.getByUUID(ctx, tx, uid)

	if err != nil {
		return domain.Task{}, obs.done(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, obs.done(err)
	}

	tr.telemetry.RecordBusinessEvent(ctx, "task.status_changed", "task", uid, map[string]interface{}{
		"from": previous.Status.String(),
		"to":   saved.Status.String(),
	})

	return saved, obs.done(nil)
}

func (tr *TaskRepository) DeleteByUUID(ctx context.Context, uid string) error {
	ctx, obs := observe(ctx, tr.telemetry, tr.db, "DeleteByUUID", tasksTable, map[string]interface{}{
		"db.operation": "DELETE",
		"task.uuid":    uid,
	})

	query := tr.db.QueryBuilder.Delete(tasksTable).
		Where(sq.Eq{"uuid": uid})

	stmt, args, err := query.ToSql()

	if err != nil {
		return obs.done(err)
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return obs.done(err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return obs.done(err)
	}

	if affected == 0 {
		return obs.done(taskNotFound(uid))
	}

	tr.telemetry.RecordBusinessEvent(ctx, "task.deleted", "task", uid, nil)

	return obs.done(nil)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (tr *TaskRepository) getByUUID(ctx context.Context, q queryer, uid string) (domain.Task, error) {
	query := tr.db.QueryBuilder.Select(taskColumns...).
		From(tasksTable).
		Where(sq.Eq{"uuid": uid}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	rows, err := q.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.Task{}, err
	}

	defer rows.Close()

	var task domain.Task

	if err := tr.scanner.ScanRowToStruct(rows, &task); err != nil {
		if err == sql.ErrNoRows {
			return domain.Task{}, taskNotFound(uid)
		}

		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}

	return task, nil
}

func taskNotFound(uid string) error {
	return domain.NotFoundf("task with id %q not found", uid)
}
