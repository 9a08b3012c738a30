package adapter

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-bff/pkg/application"
	watermillAdapter "github.com/mateusmacedo/go-bff/pkg/infrastructure/watermill/adapter"
)

// NewPubSub cria publisher e subscriber sobre Redis Streams.
func NewPubSub(client redis.UniversalClient, consumerGroup, consumer string, logger application.AppLogger) (*redisstream.Publisher, *redisstream.Subscriber, error) {
	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(logger)

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, wmLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis stream publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: consumerGroup,
		Consumer:      consumer,
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, fmt.Errorf("failed to create redis stream subscriber: %w", err)
	}

	return publisher, subscriber, nil
}
