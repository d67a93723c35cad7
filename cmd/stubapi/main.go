package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shorturl-console/internal/container"
	"go.uber.org/zap"
)

func registerPackages(injector *do.Injector, options *container.StubOptions) {
	do.ProvideValue(injector, options)
	do.ProvideValue(injector, options.LogConfig())
	container.LoggerPackage(injector)
	container.StubPackage(injector)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.StubOptions) {
		injector := do.New()
		registerPackages(injector, options)

		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			router := do.MustInvoke[*chi.Mux](injector)

			// Routes are registered when the API is first resolved.
			_ = do.MustInvoke[huma.API](injector)

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("stub api listening",
				zap.Int("port", options.Port),
				zap.Int("code_length", options.CodeLength),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("stub api failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("stub api shutdown error", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("stub api stopped")
		})
	})

	cli.Root().Use = "stubapi"
	cli.Root().Short = "Serve an in-memory short URL API for local development"

	cli.Run()
}
