package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

var TaskStatuses = []TaskStatus{TaskStatusOpen, TaskStatusInProgress, TaskStatusDone}

func (s TaskStatus) String() string {
	return string(s)
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// ParseTaskStatus accepts the exact enumeration values only.
func ParseTaskStatus(value string) (TaskStatus, error) {
	status := TaskStatus(value)

	if !status.IsValid() {
		return "", InvalidArgumentf("invalid status: %s. Valid statuses are: OPEN, IN_PROGRESS, DONE", value)
	}

	return status, nil
}

type Task struct {
	ID          int
	UUID        uuid.UUID
	Title       string
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) StatusOrDefault() TaskStatus {
	if t.Status == "" {
		return TaskStatusOpen
	}

	return t.Status
}

// TaskFilter narrows a task listing. Zero values mean "no condition".
type TaskFilter struct {
	Status TaskStatus
	Search string
}

// FoldCase is the case folding search applies to both the term and the
// stored text, on every store.
func FoldCase(s string) string {
	return strings.ToLower(s)
}
