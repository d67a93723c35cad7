package container

import (
	"github.com/samber/do"
	"github.com/serroba/shorturl-console/internal/api"
	"github.com/serroba/shorturl-console/internal/identity"
	"github.com/serroba/shorturl-console/internal/ratelimit"
	"github.com/serroba/shorturl-console/internal/store"
	"github.com/serroba/shorturl-console/internal/urls"
	"github.com/serroba/shorturl-console/internal/visitlog"
	"go.uber.org/zap"
)

// IdentityPackage provides the fingerprint source and the identity cache.
func IdentityPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (identity.Fingerprinter, error) {
		if fp := do.MustInvoke[*Options](i).Fingerprint; fp != "" {
			return identity.StaticFingerprinter(fp), nil
		}

		return identity.NewHostFingerprinter(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*identity.Cache, error) {
		return identity.NewCache(
			do.MustInvoke[identity.Fingerprinter](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// ThrottlePackage provides the client-side write throttle. The counters live in
// Redis when configured so several client processes share one budget.
func ThrottlePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		if RedisEnabled(i) {
			return store.NewRateLimitRedisStore(do.MustInvoke[*RedisClient](i).Client), nil
		}

		return store.NewRateLimitMemoryStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		opts := do.MustInvoke[*Options](i)

		return ratelimit.NewPolicyLimiter(
			do.MustInvoke[ratelimit.Store](i),
			ratelimit.WritePolicy(int64(opts.WriteLimit)),
		), nil
	})
}

// APIPackage provides the HTTP transport and the services built on it.
func APIPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*api.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return api.NewClient(
			api.Config{BaseURL: opts.BaseURL, Timeout: opts.HTTPTimeout()},
			do.MustInvoke[*identity.Cache](i),
			do.MustInvoke[*ratelimit.PolicyLimiter](i),
			do.MustInvoke[*zap.Logger](i),
		)
	})

	do.Provide(injector, func(i *do.Injector) (*urls.Service, error) {
		return urls.NewService(do.MustInvoke[*api.Client](i), do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*visitlog.Service, error) {
		return visitlog.NewService(do.MustInvoke[*api.Client](i), do.MustInvoke[*zap.Logger](i)), nil
	})
}
