//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorturl-console/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}

	return "localhost:6379"
}

func TestRateLimitRedisStoreIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := store.NewRateLimitRedisStore(client)

	t.Run("counts requests in window", func(t *testing.T) {
		key := "test:" + uuid.NewString()

		for want := int64(1); want <= 3; want++ {
			count, err := s.Record(ctx, key, time.Minute)

			require.NoError(t, err)
			assert.Equal(t, want, count)
		}

		client.Del(ctx, "shorturl:throttle:"+key)
	})

	t.Run("prunes expired entries", func(t *testing.T) {
		key := "test:" + uuid.NewString()

		_, _ = s.Record(ctx, key, 50*time.Millisecond)
		_, _ = s.Record(ctx, key, 50*time.Millisecond)

		time.Sleep(60 * time.Millisecond)

		count, err := s.Record(ctx, key, 50*time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		client.Del(ctx, "shorturl:throttle:"+key)
	})
}
