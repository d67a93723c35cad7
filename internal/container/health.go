package container

import (
	"net/http"

	"github.com/samber/do"
	"github.com/serroba/shorturl-console/internal/health"
)

// HealthPackage provides the checkers reported by the status command.
func HealthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (map[string]health.Checker, error) {
		opts := do.MustInvoke[*Options](i)

		checkers := map[string]health.Checker{
			"api": health.NewAPIChecker(&http.Client{Timeout: opts.HTTPTimeout()}, opts.BaseURL),
		}

		if RedisEnabled(i) {
			checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
		}

		return checkers, nil
	})
}
