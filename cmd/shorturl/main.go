package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"github.com/serroba/shorturl-console/internal/container"
)

func registerPackages(injector *do.Injector, options *container.Options, console container.Console) {
	do.ProvideValue(injector, options)
	do.ProvideValue(injector, options.LogConfig())
	do.ProvideValue(injector, console)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.IdentityPackage(injector)
	container.ThrottlePackage(injector)
	container.APIPackage(injector)
	container.NotificationsPackage(injector)
	container.ControllersPackage(injector)
	container.HealthPackage(injector)
}

// app carries the injector built once options are parsed.
type app struct {
	injector *do.Injector
	console  container.Console
}

// run executes fn with a signal-aware context, shuts the injector down and exits non-zero on failure.
func (a *app) run(fn func(ctx context.Context, injector *do.Injector) error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fn(ctx, a.injector)

	if shutdownErr := a.injector.Shutdown(); shutdownErr != nil {
		err = errors.Join(err, shutdownErr)
	}

	if err != nil {
		fmt.Fprintln(a.console.Err, "error:", err)
		os.Exit(1)
	}
}

func main() {
	a := &app{console: container.Console{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}}

	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		a.injector = do.New()
		registerPackages(a.injector, options, a.console)

		hooks.OnStart(func() {
			a.run(listAction(listFlags{page: 1}))
		})
	})

	root := cli.Root()
	root.Use = "shorturl"
	root.Short = "Manage your short URLs from the terminal"

	root.AddCommand(
		newListCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newLogsCmd(a),
		newExportCmd(a),
		newWhoamiCmd(a),
		newStatusCmd(a),
		newWatchCmd(a),
	)

	cli.Run()
}
