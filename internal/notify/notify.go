// Package notify delivers transient user-facing notifications about controller outcomes.
package notify

import (
	"context"
	"time"

	"github.com/serroba/shorturl-console/internal/messaging"
	"go.uber.org/zap"
)

// Topic is the message topic notifications are published on.
const Topic = "client.notifications"

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notification is a transient message for the user.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) {})

// Publisher sends notifications to a message topic.
// Delivery failures are logged and never surface to the caller.
type Publisher struct {
	publish messaging.Publish[Notification]
	now     func() time.Time
	logger  *zap.Logger
}

// NewPublisher creates a notifier that publishes through publish.
func NewPublisher(publish messaging.Publish[Notification], logger *zap.Logger) *Publisher {
	return &Publisher{
		publish: publish,
		now:     time.Now,
		logger:  logger,
	}
}

// Notify stamps n with the current time when unset and publishes it.
func (p *Publisher) Notify(ctx context.Context, n Notification) {
	if n.Time.IsZero() {
		n.Time = p.now()
	}

	if err := p.publish(ctx, &n); err != nil {
		p.logger.Warn("failed to publish notification",
			zap.String("level", string(n.Level)),
			zap.Error(err),
		)
	}
}

func Success(message string) Notification { return Notification{Level: LevelSuccess, Message: message} }
func Error(message string) Notification   { return Notification{Level: LevelError, Message: message} }
func Warning(message string) Notification { return Notification{Level: LevelWarning, Message: message} }
func Info(message string) Notification    { return Notification{Level: LevelInfo, Message: message} }
