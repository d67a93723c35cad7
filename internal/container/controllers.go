package container

import (
	"github.com/samber/do"
	"github.com/serroba/shorturl-console/internal/confirm"
	"github.com/serroba/shorturl-console/internal/listview"
	"github.com/serroba/shorturl-console/internal/logview"
	"github.com/serroba/shorturl-console/internal/notify"
	"github.com/serroba/shorturl-console/internal/urls"
	"github.com/serroba/shorturl-console/internal/visitlog"
	"go.uber.org/zap"
)

// LogViewFactory creates a log controller for one URL.
type LogViewFactory func(urlID string) *logview.Controller

// ControllersPackage provides the confirmation primitive and the view controllers.
func ControllersPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (confirm.Confirmer, error) {
		if do.MustInvoke[*Options](i).Yes {
			return confirm.Always(true), nil
		}

		console := do.MustInvoke[Console](i)

		return confirm.NewPrompt(console.In, console.Err), nil
	})

	do.Provide(injector, func(i *do.Injector) (*listview.Controller, error) {
		return listview.New(
			do.MustInvoke[*urls.Service](i),
			do.MustInvoke[confirm.Confirmer](i),
			do.MustInvoke[notify.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
			listview.WithPageSize(do.MustInvoke[*Options](i).PageSize),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (LogViewFactory, error) {
		service := do.MustInvoke[*visitlog.Service](i)
		notifier := do.MustInvoke[notify.Notifier](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return func(urlID string) *logview.Controller {
			return logview.New(service, urlID, visitlog.DefaultPageSize, notifier, logger)
		}, nil
	})
}
