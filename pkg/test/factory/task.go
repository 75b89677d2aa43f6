package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"taskmanager/internal/core/domain"
)

func NewTask(customData ...map[string]any) domain.Task {
	now := time.Now().UTC()

	defaults := map[string]any{
		"ID":          0,
		"UUID":        uuid.New(),
		"Title":       "Task " + uuid.NewString()[:8],
		"Description": "description",
		"Status":      domain.TaskStatusOpen,
		"CreatedAt":   now,
		"UpdatedAt":   now,
	}

	instance := fab.New(domain.Task{}, fab.Options[domain.Task]{Defaults: defaults})

	return instance.Build(mergeOverrides(customData))
}
