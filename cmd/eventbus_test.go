package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-bff/internal/busticket/application"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/internal/config"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
)

func TestNewEventBus_Transports(t *testing.T) {
	for _, transport := range []config.EventTransport{config.TransportMemory, config.TransportChannel} {
		t.Run(string(transport), func(t *testing.T) {
			ctx := context.Background()
			buses, closeBus, err := newEventBus(ctx, config.Config{EventTransport: transport, AppName: "test"}, nil, pkgApp.NopLogger{})
			require.NoError(t, err)
			defer closeBus()

			received := make(chan application.BookingEventData, 1)
			buses.Local.RegisterHandler(application.BookingConfirmedEvent, pkgApp.EventHandlerFunc[application.BookingEvent, application.BookingEventData](
				func(_ context.Context, event application.BookingEvent) error {
					received <- event.Payload()
					return nil
				}))

			require.NoError(t, buses.Shared.Publish(ctx, application.NewBookingConfirmedEvent(application.BookingEventData{
				BookingID: 101,
				UserID:    7,
				Status:    domain.BookingConfirmed,
			})))

			select {
			case data := <-received:
				assert.Equal(t, int64(101), data.BookingID)
				assert.Equal(t, domain.BookingConfirmed, data.Status)
			case <-time.After(2 * time.Second):
				t.Fatal("event not delivered")
			}
		})
	}
}

func TestNewEventBus_SingleProcessTransportsShareOneBus(t *testing.T) {
	buses, closeBus, err := newEventBus(context.Background(), config.Config{EventTransport: config.TransportMemory}, nil, pkgApp.NopLogger{})
	require.NoError(t, err)
	defer closeBus()

	assert.Same(t, buses.Shared, buses.Local)
}

func TestNewEventBus_KafkaWithoutBrokers(t *testing.T) {
	_, closeBus, err := newEventBus(context.Background(), config.Config{EventTransport: config.TransportKafka}, nil, pkgApp.NopLogger{})

	assert.Error(t, err)
	assert.NotPanics(t, closeBus)
}

func TestInstanceGroup(t *testing.T) {
	assert.Equal(t, "bus-booking-bff.bff-0", instanceGroup("bus-booking-bff", "bff-0"))
	assert.NotEqual(t, instanceGroup("bus-booking-bff", "bff-0"), instanceGroup("bus-booking-bff", "bff-1"))

	name := consumerName()
	assert.NotEmpty(t, name)
	assert.Equal(t, name, consumerName(), "the instance keeps one name for its lifetime")
}
