package port

import (
	"context"

	"taskmanager/internal/core/domain"
)

type TaskRepository interface {
	FindAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetByUUID(ctx context.Context, uuid string) (domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateStatusByUUID(ctx context.Context, task domain.Task) (domain.Task, error)
	DeleteByUUID(ctx context.Context, uuid string) error
}

type TaskService interface {
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}
