// Package identity computes the anonymous visitor token sent with every API request.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/serroba/shorturl-console/internal/shortener"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const flightKey = "fingerprint"

var errEmptyToken = errors.New("fingerprint source returned an empty token")

// Cache computes the visitor token once per process and serves it from memory afterwards.
// Concurrent first callers share a single computation. Failures are not cached.
type Cache struct {
	source Fingerprinter
	logger *zap.Logger
	group  singleflight.Group

	mu    sync.RWMutex
	token string
}

// NewCache creates an identity cache backed by the given fingerprint source.
func NewCache(source Fingerprinter, logger *zap.Logger) *Cache {
	return &Cache{
		source: source,
		logger: logger,
	}
}

// Token returns the visitor token, computing it on first use.
func (c *Cache) Token(ctx context.Context) (string, error) {
	if token, ok := c.cached(); ok {
		return token, nil
	}

	ch := c.group.DoChan(flightKey, func() (any, error) {
		// a flight that finished between our check and DoChan already stored the token
		if token, ok := c.cached(); ok {
			return token, nil
		}

		token, err := c.source.Fingerprint(context.WithoutCancel(ctx))
		if err != nil {
			return "", err
		}

		if token == "" {
			return "", errEmptyToken
		}

		c.mu.Lock()
		c.token = token
		c.mu.Unlock()

		c.logger.Debug("visitor fingerprint computed")

		return token, nil
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", shortener.ErrIdentity, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			c.logger.Error("failed to compute fingerprint", zap.Error(res.Err))

			return "", fmt.Errorf("%w: %w", shortener.ErrIdentity, res.Err)
		}

		token, _ := res.Val.(string)

		return token, nil
	}
}

func (c *Cache) cached() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token, c.token != ""
}
