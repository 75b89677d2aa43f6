package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/core/domain"
)

func counterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}

		for _, metric := range family.GetMetric() {
			matched := 0

			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] == pair.GetValue() {
					matched++
				}
			}

			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}

	return 0
}

func TestAppMetrics_Operations(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewAppMetrics(registry)
	ctx := context.Background()

	metrics.RecordTaskOperation(ctx, "create", nil)
	metrics.RecordTaskOperation(ctx, "create", nil)
	metrics.RecordTaskOperation(ctx, "delete", domain.NotFoundf("task not found"))
	metrics.RecordTaskOperation(ctx, "list", errors.New("boom"))
	metrics.RecordUserOperation(ctx, "register", nil)
	metrics.RecordUserOperation(ctx, "register", domain.ErrUsernameTaken)
	metrics.RecordUserOperation(ctx, "authenticate", domain.ErrInvalidCredentials)
	metrics.RecordTaskOperation(ctx, "update_status", domain.InvalidArgumentf("invalid status"))
	metrics.RecordRateLimitHit(ctx, "/auth/signin", "ip")

	assert.Equal(t, 2.0, counterValue(t, registry, "task_operations_total", map[string]string{"operation": "create", "outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "task_operations_total", map[string]string{"operation": "delete", "outcome": "not_found"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "task_operations_total", map[string]string{"operation": "list", "outcome": "internal"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "task_operations_total", map[string]string{"operation": "update_status", "outcome": "invalid_argument"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "user_operations_total", map[string]string{"operation": "register", "outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "user_operations_total", map[string]string{"operation": "register", "outcome": "conflict"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "user_operations_total", map[string]string{"operation": "authenticate", "outcome": "unauthorized"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "rate_limit_hits_total", map[string]string{"path": "/auth/signin", "key_type": "ip"}))
}

func TestAppMetrics_TaskLifecycle(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewAppMetrics(registry)
	ctx := context.Background()

	metrics.RecordTaskCreated(ctx, "OPEN")
	metrics.RecordTaskCreated(ctx, "OPEN")
	metrics.RecordStatusTransition(ctx, "OPEN", "DONE")
	metrics.RecordStatusTransition(ctx, "DONE", "DONE")

	assert.Equal(t, 2.0, counterValue(t, registry, "tasks_created_total", map[string]string{"status": "OPEN"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "task_status_transitions_total", map[string]string{"from": "OPEN", "to": "DONE"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "task_status_transitions_total", map[string]string{"from": "DONE", "to": "DONE"}))
}

func TestAppMetrics_RecordRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewAppMetrics(registry)

	metrics.RecordRequest(context.Background(), "GET", "/tasks", "200", 15*time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, registry, "http_requests_total", map[string]string{"method": "GET", "path": "/tasks", "status": "200"}))
}

func TestAppMetrics_RegistersOnce(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewAppMetrics(registry)

	assert.Panics(t, func() { NewAppMetrics(registry) })
}
