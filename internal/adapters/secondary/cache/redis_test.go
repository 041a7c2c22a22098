package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb, err := Connect(ctx, addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewRedisCache(rdb)
	require.NoError(t, c.Ping(ctx))

	_, ok, err := c.Get(ctx, "testing-insight:dashboard:v1:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "testing-insight:dashboard:v1:abc", []byte(`{"total":3}`), time.Minute))
	v, ok, err := c.Get(ctx, "testing-insight:dashboard:v1:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"total":3}`, string(v))

	ttl, err := rdb.TTL(ctx, "testing-insight:dashboard:v1:abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
