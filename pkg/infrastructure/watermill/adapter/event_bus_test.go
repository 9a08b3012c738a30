package adapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-bff/pkg/application"
	"github.com/mateusmacedo/go-bff/pkg/domain"
)

type bookingEvent struct {
	BookingID int64  `json:"bookingId"`
	Status    string `json:"status"`
}

func newTestBus(t *testing.T) *WatermillEventBus[domain.Event[bookingEvent], bookingEvent] {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	bus := NewWatermillEventBus[domain.Event[bookingEvent], bookingEvent](pubSub, pubSub, application.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func TestWatermillEventBus_DeliversToAllHandlers(t *testing.T) {
	bus := newTestBus(t)

	var mu sync.Mutex
	var received []bookingEvent
	record := application.EventHandlerFunc[domain.Event[bookingEvent], bookingEvent](
		func(_ context.Context, evt domain.Event[bookingEvent]) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, evt.Payload())
			return nil
		})
	bus.RegisterHandler("BookingCancelled", record)
	bus.RegisterHandler("BookingCancelled", record)

	err := bus.Publish(context.Background(), domain.NewEvent("BookingCancelled", bookingEvent{BookingID: 5, Status: "Cancelled"}))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(5), received[0].BookingID)
}

func TestWatermillEventBus_NackRedelivers(t *testing.T) {
	bus := newTestBus(t)

	var mu sync.Mutex
	attempts := 0
	bus.RegisterHandler("BookingRefunded", application.EventHandlerFunc[domain.Event[bookingEvent], bookingEvent](
		func(context.Context, domain.Event[bookingEvent]) error {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts == 1 {
				return errors.New("temporarily unavailable")
			}
			return nil
		}))

	require.NoError(t, bus.Publish(context.Background(), domain.NewEvent("BookingRefunded", bookingEvent{BookingID: 1})))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts >= 2
	}, time.Second, 10*time.Millisecond)
}
