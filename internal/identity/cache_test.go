package identity_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/serroba/shorturl-console/internal/identity"
	"github.com/serroba/shorturl-console/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingFingerprinter struct {
	calls   atomic.Int32
	release chan struct{}
	token   string
	err     error
}

func (f *countingFingerprinter) Fingerprint(_ context.Context) (string, error) {
	f.calls.Add(1)

	if f.release != nil {
		<-f.release
	}

	return f.token, f.err
}

func TestCache_Token(t *testing.T) {
	t.Run("computes once and serves from memory", func(t *testing.T) {
		source := &countingFingerprinter{token: "abc123"}
		cache := identity.NewCache(source, zap.NewNop())

		first, err := cache.Token(context.Background())
		require.NoError(t, err)

		second, err := cache.Token(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "abc123", first)
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), source.calls.Load())
	})

	t.Run("concurrent first calls share one computation", func(t *testing.T) {
		source := &countingFingerprinter{token: "shared", release: make(chan struct{})}
		cache := identity.NewCache(source, zap.NewNop())

		const callers = 20

		var wg sync.WaitGroup

		tokens := make([]string, callers)
		errs := make([]error, callers)

		for i := range callers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				tokens[i], errs[i] = cache.Token(context.Background())
			}()
		}

		require.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		close(source.release)
		wg.Wait()

		assert.Equal(t, int32(1), source.calls.Load())

		for i := range callers {
			require.NoError(t, errs[i])
			assert.Equal(t, "shared", tokens[i])
		}
	})

	t.Run("failure is not cached", func(t *testing.T) {
		source := &countingFingerprinter{err: errors.New("no canvas")}
		cache := identity.NewCache(source, zap.NewNop())

		_, err := cache.Token(context.Background())
		require.ErrorIs(t, err, shortener.ErrIdentity)

		source.err = nil
		source.token = "recovered"

		token, err := cache.Token(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "recovered", token)
		assert.Equal(t, int32(2), source.calls.Load())
	})

	t.Run("empty token is an identity failure", func(t *testing.T) {
		source := &countingFingerprinter{}
		cache := identity.NewCache(source, zap.NewNop())

		_, err := cache.Token(context.Background())
		require.ErrorIs(t, err, shortener.ErrIdentity)

		source.token = "later"

		token, err := cache.Token(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "later", token)
		assert.Equal(t, int32(2), source.calls.Load())
	})

	t.Run("cancelled caller gives up without poisoning the cache", func(t *testing.T) {
		source := &countingFingerprinter{token: "late", release: make(chan struct{})}
		cache := identity.NewCache(source, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := cache.Token(ctx)
		require.ErrorIs(t, err, shortener.ErrIdentity)

		close(source.release)

		token, err := cache.Token(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "late", token)
	})
}

func TestStaticFingerprinter(t *testing.T) {
	token, err := identity.StaticFingerprinter("fixed").Fingerprint(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fixed", token)

	_, err = identity.StaticFingerprinter("").Fingerprint(context.Background())
	assert.Error(t, err)
}
