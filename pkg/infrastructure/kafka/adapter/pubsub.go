package adapter

import (
	"errors"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"

	"github.com/mateusmacedo/go-bff/pkg/application"
	watermillAdapter "github.com/mateusmacedo/go-bff/pkg/infrastructure/watermill/adapter"
)

// Config agrupa os parâmetros de conexão com o Kafka.
type Config struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string
}

func (c Config) validate() error {
	if len(c.Brokers) == 0 {
		return errors.New("kafka: at least one broker is required")
	}
	if c.ConsumerGroup == "" {
		return errors.New("kafka: consumer group is required")
	}
	return nil
}

func (c Config) saramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V1_0_0_0
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = c.ClientID
	if saramaConfig.ClientID == "" {
		saramaConfig.ClientID = "go-bff"
	}
	return saramaConfig
}

// NewPubSub cria publisher e subscriber Kafka que compartilham o logger da aplicação.
func NewPubSub(cfg Config, logger application.AppLogger) (*kafka.Publisher, *kafka.Subscriber, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(logger)
	marshaler := kafka.DefaultMarshaler{}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.Brokers,
		Marshaler: marshaler,
	}, wmLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               cfg.Brokers,
		Unmarshaler:           marshaler,
		ConsumerGroup:         cfg.ConsumerGroup,
		OverwriteSaramaConfig: cfg.saramaConfig(),
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}

	return publisher, subscriber, nil
}

// InitializeTopics garante que os tópicos dos eventos existam antes da primeira publicação.
func InitializeTopics(subscriber *kafka.Subscriber, topics ...string) error {
	for _, topic := range topics {
		if err := subscriber.SubscribeInitialize(topic); err != nil {
			return fmt.Errorf("failed to initialize Kafka topic %q: %w", topic, err)
		}
	}
	return nil
}
