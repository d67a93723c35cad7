package messaging

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const channelBuffer = 64

// NewInProcess creates an in-memory pub/sub. Publish returns only after every
// subscriber acknowledged the message, so handlers finish before the caller continues.
func NewInProcess(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            channelBuffer,
		BlockPublishUntilSubscriberAck: true,
	}, logger)
}

// NewStreamPublisher creates a publisher writing to Redis streams.
func NewStreamPublisher(client redis.UniversalClient, logger watermill.LoggerAdapter) (*redisstream.Publisher, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client:     client,
		Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create stream publisher: %w", err)
	}

	return publisher, nil
}

// NewStreamSubscriber creates a subscriber reading Redis streams. An empty
// consumerGroup makes every subscriber receive every message (fan-out).
func NewStreamSubscriber(
	client redis.UniversalClient,
	consumerGroup string,
	logger watermill.LoggerAdapter,
) (*redisstream.Subscriber, error) {
	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
		ConsumerGroup: consumerGroup,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create stream subscriber: %w", err)
	}

	return subscriber, nil
}
