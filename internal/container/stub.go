package container

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shorturl-console/internal/apitest"
	"github.com/serroba/shorturl-console/internal/health"
	"go.uber.org/zap"
)

// StubPackage provides the router and API of the local stub server.
func StubPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*apitest.Server, error) {
		opts := do.MustInvoke[*StubOptions](i)

		return apitest.New(apitest.Config{
			ShortBaseURL: fmt.Sprintf("http://localhost:%d", opts.Port),
			CodeLength:   opts.CodeLength,
		}, do.MustInvoke[*zap.Logger](i))
	})

	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		api := humachi.New(router, huma.DefaultConfig("Short URL API", "1.0.0"))

		api.UseMiddleware(apitest.WithRequestMeta(api))

		health.RegisterRoutes(api, health.NewHandler(map[string]health.Checker{
			"store": health.CheckerFunc(func(context.Context) error { return nil }),
		}))
		do.MustInvoke[*apitest.Server](i).Register(api)

		return api, nil
	})
}
