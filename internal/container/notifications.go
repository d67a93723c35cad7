package container

import (
	"context"
	"fmt"
	"os"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"github.com/serroba/shorturl-console/internal/messaging"
	"github.com/serroba/shorturl-console/internal/notify"
	"go.uber.org/zap"
)

// NotificationsPackage wires notifications: an in-process channel whose printer
// renders to the console, plus a Redis stream when Redis is configured.
func NotificationsPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return messaging.NewInProcess(messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i))), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		pubsub := do.MustInvoke[*gochannel.GoChannel](i)
		console := do.MustInvoke[Console](i)

		group := messaging.NewConsumerGroup(pubsub, logger)
		group.Add(messaging.NewConsumer(pubsub, notify.Topic, notify.NewPrinter(console.Err).Handle, logger))

		if err := group.Start(context.Background()); err != nil {
			return nil, err
		}

		return group, nil
	})

	do.Provide(injector, func(i *do.Injector) (*redisstream.Publisher, error) {
		return messaging.NewStreamPublisher(
			do.MustInvoke[*RedisClient](i).Client,
			messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i)),
		)
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		return messaging.NewPublisherGroup(do.MustInvoke[*redisstream.Publisher](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (notify.Notifier, error) {
		source := fmt.Sprintf("shorturl-%d", os.Getpid())

		// the printer must be subscribed before the first notification is published
		_ = do.MustInvoke[*messaging.ConsumerGroup](i)

		publish := messaging.NewPublishFunc[notify.Notification](do.MustInvoke[*gochannel.GoChannel](i), notify.Topic, source)

		if RedisEnabled(i) {
			_ = do.MustInvoke[*messaging.PublisherGroup](i)
			stream := messaging.NewPublishFunc[notify.Notification](do.MustInvoke[*redisstream.Publisher](i), notify.Topic, source)
			publish = messaging.FanOut(publish, stream)
		}

		return notify.NewPublisher(publish, do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*redisstream.Subscriber, error) {
		// no consumer group: every watcher receives every notification
		return messaging.NewStreamSubscriber(
			do.MustInvoke[*RedisClient](i).Client,
			"",
			messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i)),
		)
	})
}
