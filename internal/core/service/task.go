package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/port"
)

type TaskService struct {
	repo port.TaskRepository
}

func NewTaskService(repo port.TaskRepository) *TaskService {
	return &TaskService{repo}
}

// List returns the tasks matching filter in creation order.
func (ts *TaskService) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.InvalidArgumentf("invalid status: %s. Valid statuses are: OPEN, IN_PROGRESS, DONE", filter.Status)
	}

	tasks, err := ts.repo.FindAll(ctx, filter)

	if err != nil {
		slog.Error("Task#List", "find_all", err)
		return nil, domain.Internal(err)
	}

	return tasks, nil
}

func (ts *TaskService) GetByID(ctx context.Context, id string) (domain.Task, error) {
	uid, err := parseTaskID(id)

	if err != nil {
		return domain.Task{}, err
	}

	task, err := ts.repo.GetByUUID(ctx, uid)

	if err != nil {
		return domain.Task{}, translate("Task#GetByID", err)
	}

	return task, nil
}

func (ts *TaskService) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	status := task.StatusOrDefault()

	if !status.IsValid() {
		return domain.Task{}, domain.InvalidArgumentf("invalid status: %s. Valid statuses are: OPEN, IN_PROGRESS, DONE", status)
	}

	now := time.Now().UTC()

	newTask := domain.Task{
		UUID:        uuid.New(),
		Title:       task.Title,
		Description: task.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := ts.repo.Create(ctx, newTask)

	if err != nil {
		slog.Error("Task#Create", "error", err, "title", newTask.Title)
		return domain.Task{}, domain.Internal(err)
	}

	return saved, nil
}

func (ts *TaskService) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (domain.Task, error) {
	if !status.IsValid() {
		return domain.Task{}, domain.InvalidArgumentf("invalid status: %s. Valid statuses are: OPEN, IN_PROGRESS, DONE", status)
	}

	task, err := ts.GetByID(ctx, id)

	if err != nil {
		return domain.Task{}, err
	}

	task.Status = status
	task.UpdatedAt = time.Now().UTC()

	updated, err := ts.repo.UpdateStatusByUUID(ctx, task)

	if err != nil {
		return domain.Task{}, translate("Task#UpdateStatus", err)
	}

	return updated, nil
}

func (ts *TaskService) Delete(ctx context.Context, id string) error {
	uid, err := parseTaskID(id)

	if err != nil {
		return err
	}

	if err := ts.repo.DeleteByUUID(ctx, uid); err != nil {
		return translate("Task#Delete", err)
	}

	return nil
}

func parseTaskID(id string) (string, error) {
	uid, err := uuid.Parse(id)

	if err != nil {
		return "", domain.InvalidArgumentf("invalid task id: %s", id)
	}

	return uid.String(), nil
}

// translate passes not-found through and hides everything else.
func translate(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}

	slog.Error(op, "error", err)

	return domain.Internal(err)
}
