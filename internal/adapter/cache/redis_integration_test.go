//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStore_Increment(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
	})
	require.NoError(t, err)

	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, _ := container.Host(ctx)
	mapped, _ := container.MappedPort(ctx, "6379")

	store, err := NewRedisStore(ctx, fmt.Sprintf("redis://%s:%s/0", host, mapped.Port()), "test:")
	require.NoError(t, err)

	t.Cleanup(func() { store.Close() })

	first, reset, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)

	second, _, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.WithinDuration(t, time.Now().Add(time.Minute), reset, 2*time.Second)

	short, _, err := store.Increment(ctx, "short", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, short)

	time.Sleep(150 * time.Millisecond)

	again, _, err := store.Increment(ctx, "short", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, again)
}
