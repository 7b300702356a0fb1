package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "registration:"), server
}

type cachedValue struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestCacheHelper_GetSet(t *testing.T) {
	ctx := context.Background()
	helper, server := newTestHelper(t)

	t.Run("round trip", func(t *testing.T) {
		stored := cachedValue{ID: "abc", Status: "PAID"}
		require.NoError(t, helper.Set(ctx, "id:abc", stored, time.Minute))

		var loaded cachedValue
		require.NoError(t, helper.Get(ctx, "id:abc", &loaded))
		assert.Equal(t, stored, loaded)
	})

	t.Run("keys are prefixed", func(t *testing.T) {
		require.NoError(t, helper.Set(ctx, "id:prefixed", cachedValue{ID: "p"}, time.Minute))
		assert.True(t, server.Exists("registration:id:prefixed"))
	})

	t.Run("miss returns ErrCacheNotFound", func(t *testing.T) {
		var loaded cachedValue
		err := helper.Get(ctx, "id:missing", &loaded)
		assert.True(t, errors.Is(err, ErrCacheNotFound))
	})

	t.Run("entries expire", func(t *testing.T) {
		require.NoError(t, helper.Set(ctx, "id:expiring", cachedValue{ID: "x"}, time.Second))
		server.FastForward(2 * time.Second)

		var loaded cachedValue
		err := helper.Get(ctx, "id:expiring", &loaded)
		assert.True(t, errors.Is(err, ErrCacheNotFound))
	})
}

func TestCacheHelper_NilClient(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "registration:")

	// Cacheless deployments degrade to pass-through.
	assert.NoError(t, helper.Set(ctx, "k", cachedValue{}, time.Minute))

	var loaded cachedValue
	err := helper.Get(ctx, "k", &loaded)
	assert.True(t, errors.Is(err, ErrCacheNotAvailable))
}

func TestCacheHelper_DeleteExists(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	require.NoError(t, helper.Set(ctx, "id:a", cachedValue{ID: "a"}, time.Minute))
	require.NoError(t, helper.Set(ctx, "id:b", cachedValue{ID: "b"}, time.Minute))

	found, err := helper.Exists(ctx, "id:a")
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, helper.Delete(ctx, "id:a", "id:b"))

	found, err = helper.Exists(ctx, "id:a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper, server := newTestHelper(t)

	require.NoError(t, helper.Set(ctx, "user:u1:page:1", cachedValue{ID: "1"}, time.Minute))
	require.NoError(t, helper.Set(ctx, "user:u1:page:2", cachedValue{ID: "2"}, time.Minute))
	require.NoError(t, helper.Set(ctx, "user:u2:page:1", cachedValue{ID: "3"}, time.Minute))

	require.NoError(t, helper.InvalidatePattern(ctx, "user:u1:*"))

	assert.False(t, server.Exists("registration:user:u1:page:1"))
	assert.False(t, server.Exists("registration:user:u1:page:2"))
	assert.True(t, server.Exists("registration:user:u2:page:1"))
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return &cachedValue{ID: "fetched", Status: "REGISTERED"}, nil
	}

	var first cachedValue
	require.NoError(t, helper.CacheOrExecute(ctx, "id:fetch", &first, time.Minute, fetch))
	assert.Equal(t, "fetched", first.ID)
	assert.Equal(t, 1, calls)

	// Async cache fill; wait for the write before the second read.
	require.Eventually(t, func() bool {
		var probe cachedValue
		return helper.Get(ctx, "id:fetch", &probe) == nil
	}, time.Second, 10*time.Millisecond)

	var second cachedValue
	require.NoError(t, helper.CacheOrExecute(ctx, "id:fetch", &second, time.Minute, fetch))
	assert.Equal(t, "fetched", second.ID)
	assert.Equal(t, 1, calls, "second read must come from cache")
}

func TestCacheManager(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	manager := NewCacheManager(client)
	require.NoError(t, manager.HealthCheck(context.Background()))

	assert.Equal(t, "registration:id:1", manager.Registration.GetCacheKey("id:1"))
	assert.Equal(t, "exam:id:1", manager.Exam.GetCacheKey("id:1"))
	assert.Equal(t, "user:id:1", manager.User.GetCacheKey("id:1"))
	assert.Equal(t, "content:id:1", manager.Content.GetCacheKey("id:1"))
}
