// Package messaging carries typed JSON events over watermill publishers and subscribers.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// SourceMetadataKey names the process that published a message.
const SourceMetadataKey = "source"

// Publish is a function that publishes a typed event.
type Publish[T any] func(ctx context.Context, event *T) error

// NewPublishFunc creates a typed publish function for a specific topic.
// Every message is tagged with source so consumers can tell publishers apart.
func NewPublishFunc[T any](publisher message.Publisher, topic, source string) Publish[T] {
	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event for %s: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(SourceMetadataKey, source)
		msg.SetContext(ctx)

		return publisher.Publish(topic, msg)
	}
}

// FanOut returns a Publish that hands the event to every target and joins their errors.
func FanOut[T any](targets ...Publish[T]) Publish[T] {
	return func(ctx context.Context, event *T) error {
		var errs []error

		for _, publish := range targets {
			if err := publish(ctx, event); err != nil {
				errs = append(errs, err)
			}
		}

		return errors.Join(errs...)
	}
}

// PublisherGroup owns the publishers behind typed publish functions and closes them together.
type PublisherGroup struct {
	publishers []message.Publisher
}

// NewPublisherGroup creates a new publisher group.
func NewPublisherGroup(publishers ...message.Publisher) *PublisherGroup {
	return &PublisherGroup{publishers: publishers}
}

// Shutdown closes every publisher and returns the first error.
func (g *PublisherGroup) Shutdown() error {
	var firstErr error

	for _, p := range g.publishers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
