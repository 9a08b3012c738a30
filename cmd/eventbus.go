package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-bff/internal/busticket/application"
	"github.com/mateusmacedo/go-bff/internal/config"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-bff/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/go-bff/pkg/infrastructure/channels/adapter"
	kafkaAdapter "github.com/mateusmacedo/go-bff/pkg/infrastructure/kafka/adapter"
	redisAdapter "github.com/mateusmacedo/go-bff/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/go-bff/pkg/infrastructure/watermill/adapter"
)

// eventBuses separa as duas formas de consumo dos eventos de reserva.
// Shared usa o consumer group comum: cada evento é tratado por uma única
// instância (auditoria). Local usa um group por instância, para que toda
// instância atualize a própria projeção em memória. A publicação é sempre
// feita pelo Shared.
type eventBuses struct {
	Shared application.BookingEventBus
	Local  application.BookingEventBus
}

// instanceGroup deriva o consumer group exclusivo desta instância.
func instanceGroup(group, consumer string) string {
	return group + "." + consumer
}

type pubSubFactory func(group string) (*watermillAdapter.WatermillEventBus[application.BookingEvent, application.BookingEventData], error)

// newEventBus escolhe o transporte dos eventos de reserva conforme
// EVENT_TRANSPORT. A função de fechamento devolvida é sempre segura de chamar.
func newEventBus(ctx context.Context, cfg config.Config, client redis.UniversalClient, logger pkgApp.AppLogger) (eventBuses, func(), error) {
	noop := func() {}

	var (
		group   string
		factory pubSubFactory
	)
	switch cfg.EventTransport {
	case config.TransportChannel:
		// um único processo: o mesmo barramento serve aos dois usos
		pubSub := channelsAdapter.NewGoChannelPubSub(logger)
		bus := watermillAdapter.NewWatermillEventBus[application.BookingEvent, application.BookingEventData](pubSub, pubSub, logger)
		return eventBuses{Shared: bus, Local: bus}, closer(ctx, logger, bus), nil

	case config.TransportKafka:
		group = cfg.KafkaConsumerGroup
		factory = func(group string) (*watermillAdapter.WatermillEventBus[application.BookingEvent, application.BookingEventData], error) {
			publisher, subscriber, err := kafkaAdapter.NewPubSub(kafkaAdapter.Config{
				Brokers:       cfg.KafkaBrokers,
				ConsumerGroup: group,
				ClientID:      cfg.AppName,
			}, logger)
			if err != nil {
				return nil, fmt.Errorf("kafka pubsub: %w", err)
			}
			if err := kafkaAdapter.InitializeTopics(subscriber, application.BookingEventNames...); err != nil {
				_ = publisher.Close()
				_ = subscriber.Close()
				return nil, fmt.Errorf("kafka topics: %w", err)
			}
			return watermillAdapter.NewWatermillEventBus[application.BookingEvent, application.BookingEventData](publisher, subscriber, logger), nil
		}

	case config.TransportRedis:
		group = cfg.AppName
		factory = func(group string) (*watermillAdapter.WatermillEventBus[application.BookingEvent, application.BookingEventData], error) {
			publisher, subscriber, err := redisAdapter.NewPubSub(client, group, consumerName(), logger)
			if err != nil {
				return nil, fmt.Errorf("redis pubsub: %w", err)
			}
			return watermillAdapter.NewWatermillEventBus[application.BookingEvent, application.BookingEventData](publisher, subscriber, logger), nil
		}

	default:
		bus := pkgInfra.NewSimpleEventBus[application.BookingEvent, application.BookingEventData](logger)
		return eventBuses{Shared: bus, Local: bus}, noop, nil
	}

	shared, err := factory(group)
	if err != nil {
		return eventBuses{}, noop, err
	}
	local, err := factory(instanceGroup(group, consumerName()))
	if err != nil {
		closer(ctx, logger, shared)()
		return eventBuses{}, noop, err
	}
	closeShared, closeLocal := closer(ctx, logger, shared), closer(ctx, logger, local)
	return eventBuses{Shared: shared, Local: local}, func() {
		closeLocal()
		closeShared()
	}, nil
}

type closable interface {
	Close() error
}

func closer(ctx context.Context, logger pkgApp.AppLogger, c closable) func() {
	return func() {
		if err := c.Close(); err != nil {
			pkgApp.LogError(ctx, logger, "Erro ao fechar o barramento de eventos", err, nil)
		}
	}
}

// consumerName identifica esta instância nos consumer groups.
func consumerName() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return instanceID
}

var instanceID = pkgInfra.GenerateUUID()
