package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// RedisClient closes the underlying client on injector shutdown.
type RedisClient struct {
	*redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// RedisEnabled reports whether a Redis address was configured.
func RedisEnabled(injector *do.Injector) bool {
	return do.MustInvoke[*Options](injector).RedisAddr != ""
}

// RedisPackage provides *RedisClient. Only invoke it when RedisEnabled.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}
