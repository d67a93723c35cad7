package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/samber/lo"
	"github.com/serroba/shorturl-console/internal/container"
	"github.com/serroba/shorturl-console/internal/export"
	"github.com/serroba/shorturl-console/internal/health"
	"github.com/serroba/shorturl-console/internal/identity"
	"github.com/serroba/shorturl-console/internal/listview"
	"github.com/serroba/shorturl-console/internal/messaging"
	"github.com/serroba/shorturl-console/internal/notify"
	"github.com/serroba/shorturl-console/internal/shortener"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type listFlags struct {
	page   int
	search string
}

func listAction(flags listFlags) func(ctx context.Context, injector *do.Injector) error {
	return func(ctx context.Context, injector *do.Injector) error {
		controller := do.MustInvoke[*listview.Controller](injector)
		console := do.MustInvoke[container.Console](injector)

		if err := controller.Load(ctx); err != nil {
			return err
		}

		controller.SetSearchQuery(flags.search)

		if flags.page != 1 && !controller.Paginate(flags.page) {
			return fmt.Errorf("%w: page %d does not exist", shortener.ErrValidation, flags.page)
		}

		return renderList(console.Out, controller.View())
	}
}

func newListCmd(a *app) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your short URLs",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			a.run(listAction(flags))
		},
	}

	cmd.Flags().IntVar(&flags.page, "page", 1, "Page to show")
	cmd.Flags().StringVarP(&flags.search, "search", "s", "", "Only show links whose name contains this text")

	return cmd
}

type formFlags struct {
	longURL     string
	name        string
	expires     string
	clearExpiry bool
}

func (f formFlags) expiry() (shortener.Expiry, error) {
	if f.clearExpiry {
		if f.expires != "" {
			return shortener.Expiry{}, fmt.Errorf("%w: --expires and --clear-expiry are exclusive", shortener.ErrValidation)
		}

		return shortener.ClearExpiry(), nil
	}

	if f.expires == "" {
		return shortener.KeepExpiry(), nil
	}

	at, err := time.Parse(time.RFC3339, f.expires)
	if err != nil {
		return shortener.Expiry{}, fmt.Errorf("%w: --expires must be RFC 3339: %w", shortener.ErrValidation, err)
	}

	return shortener.ExpireAt(at), nil
}

func newCreateCmd(a *app) *cobra.Command {
	var flags formFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Shorten a URL",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			a.run(func(ctx context.Context, injector *do.Injector) error {
				expiry, err := flags.expiry()
				if err != nil {
					return err
				}

				controller := do.MustInvoke[*listview.Controller](injector)
				controller.BeginCreate()

				created, err := controller.Submit(ctx, listview.Input{LongURL: flags.longURL, Name: flags.name, Expiry: expiry})
				if err != nil {
					return err
				}

				return renderURL(do.MustInvoke[container.Console](injector).Out, created)
			})
		},
	}

	cmd.Flags().StringVar(&flags.longURL, "url", "", "URL to shorten")
	cmd.Flags().StringVar(&flags.name, "name", "", "Display name")
	cmd.Flags().StringVar(&flags.expires, "expires", "", "Expiration time (RFC 3339)")

	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var flags formFlags

	cmd := &cobra.Command{
		Use:   "update CODE",
		Short: "Change the target, name or expiration of a short URL",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			a.run(func(ctx context.Context, injector *do.Injector) error {
				expiry, err := flags.expiry()
				if err != nil {
					return err
				}

				controller := do.MustInvoke[*listview.Controller](injector)

				if err := controller.Load(ctx); err != nil {
					return err
				}

				current, ok := lo.Find(controller.Items(), func(u shortener.ShortURL) bool {
					return u.Code == shortener.Code(args[0])
				})
				if !ok {
					return fmt.Errorf("%w: %s", shortener.ErrNotFound, args[0])
				}

				if err := controller.BeginEdit(current.ID); err != nil {
					return err
				}

				updated, err := controller.Submit(ctx, listview.Input{
					LongURL: lo.CoalesceOrEmpty(flags.longURL, current.LongURL),
					Name:    lo.CoalesceOrEmpty(flags.name, current.Name),
					Expiry:  expiry,
				})
				if err != nil {
					return err
				}

				return renderURL(do.MustInvoke[container.Console](injector).Out, updated)
			})
		},
	}

	cmd.Flags().StringVar(&flags.longURL, "url", "", "New target URL")
	cmd.Flags().StringVar(&flags.name, "name", "", "New display name")
	cmd.Flags().StringVar(&flags.expires, "expires", "", "New expiration time (RFC 3339)")
	cmd.Flags().BoolVar(&flags.clearExpiry, "clear-expiry", false, "Remove the expiration")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CODE",
		Short: "Delete a short URL",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			a.run(func(ctx context.Context, injector *do.Injector) error {
				controller := do.MustInvoke[*listview.Controller](injector)

				if err := controller.Load(ctx); err != nil {
					return err
				}

				_, err := controller.Delete(ctx, shortener.Code(args[0]))

				return err
			})
		},
	}
}

func newLogsCmd(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "logs ID",
		Short: "Show the visitor log of a short URL",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			a.run(func(ctx context.Context, injector *do.Injector) error {
				controller := do.MustInvoke[container.LogViewFactory](injector)(args[0])

				if err := controller.SetPage(ctx, page); err != nil {
					return err
				}

				return renderLog(do.MustInvoke[container.Console](injector).Out, controller)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to show")

	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every short URL to a file",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			a.run(func(ctx context.Context, injector *do.Injector) error {
				f, err := export.ParseFormat(format)
				if err != nil {
					return err
				}

				controller := do.MustInvoke[*listview.Controller](injector)

				if err := controller.Load(ctx); err != nil {
					return err
				}

				if output == "" || output == "-" {
					return controller.Export(ctx, do.MustInvoke[container.Console](injector).Out, f)
				}

				file, err := os.Create(output)
				if err != nil {
					return err
				}

				if err := controller.Export(ctx, file, f); err != nil {
					_ = file.Close()

					return err
				}

				return file.Close()
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "Export format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, stdout when empty")

	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the visitor fingerprint sent with every request",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			a.run(func(ctx context.Context, injector *do.Injector) error {
				token, err := do.MustInvoke[*identity.Cache](injector).Token(ctx)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(do.MustInvoke[container.Console](injector).Out, token)

				return err
			})
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the API and Redis are reachable",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			a.run(func(ctx context.Context, injector *do.Injector) error {
				report := health.Check(ctx, do.MustInvoke[map[string]health.Checker](injector))

				if err := renderHealth(do.MustInvoke[container.Console](injector).Out, report); err != nil {
					return err
				}

				if report.Status != health.StatusOK {
					return errors.New("some dependencies are unhealthy")
				}

				return nil
			})
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print notifications published by other shorturl processes",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			a.run(func(ctx context.Context, injector *do.Injector) error {
				if !container.RedisEnabled(injector) {
					return errors.New("watch needs --redis-addr")
				}

				consumer := messaging.NewConsumer(
					do.MustInvoke[*redisstream.Subscriber](injector),
					notify.Topic,
					notify.NewPrinter(do.MustInvoke[container.Console](injector).Out).Handle,
					do.MustInvoke[*zap.Logger](injector),
				)

				return consumer.Run(ctx)
			})
		},
	}
}
