package infrastructure

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-bff/pkg/application"
	"github.com/mateusmacedo/go-bff/pkg/domain"
)

type commandFunc func(ctx context.Context, cmd domain.Command[string]) error

func (f commandFunc) Handle(ctx context.Context, cmd domain.Command[string]) error { return f(ctx, cmd) }

type queryFunc func(ctx context.Context, q domain.Query[int]) (int, error)

func (f queryFunc) Handle(ctx context.Context, q domain.Query[int]) (int, error) { return f(ctx, q) }

func TestSimpleCommandBus_Dispatch(t *testing.T) {
	bus := NewSimpleCommandBus[domain.Command[string], string](application.NopLogger{})

	var got string
	bus.RegisterHandler("CancelBooking", commandFunc(
		func(_ context.Context, cmd domain.Command[string]) error {
			got = cmd.Payload()
			return nil
		}))

	require.NoError(t, bus.Dispatch(context.Background(), domain.NewCommand("CancelBooking", "change of plans")))
	assert.Equal(t, "change of plans", got)
}

func TestSimpleCommandBus_UnknownCommand(t *testing.T) {
	bus := NewSimpleCommandBus[domain.Command[string], string](application.NopLogger{})

	err := bus.Dispatch(context.Background(), domain.NewCommand("Unknown", ""))
	assert.ErrorIs(t, err, ErrNoCommandHandler)
}

func TestSimpleQueryBus_Dispatch(t *testing.T) {
	bus := NewSimpleQueryBus[domain.Query[int], int, int](application.NopLogger{})
	bus.RegisterHandler("Double", queryFunc(
		func(_ context.Context, q domain.Query[int]) (int, error) {
			return q.Payload() * 2, nil
		}))

	result, err := bus.Dispatch(context.Background(), domain.NewQuery("Double", 21))
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestSimpleQueryBus_ContextCancelled(t *testing.T) {
	bus := NewSimpleQueryBus[domain.Query[int], int, int](application.NopLogger{})
	bus.RegisterHandler("Slow", queryFunc(
		func(ctx context.Context, _ domain.Query[int]) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := bus.Dispatch(ctx, domain.NewQuery("Slow", 1))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSimpleQueryBus_UnknownQuery(t *testing.T) {
	bus := NewSimpleQueryBus[domain.Query[int], int, int](application.NopLogger{})

	_, err := bus.Dispatch(context.Background(), domain.NewQuery("Missing", 1))
	assert.ErrorIs(t, err, ErrNoQueryHandler)
}

func TestSimpleEventBus_PublishAggregatesErrors(t *testing.T) {
	bus := NewSimpleEventBus[domain.Event[int64], int64](application.NopLogger{})

	var calls atomic.Int32
	ok := application.EventHandlerFunc[domain.Event[int64], int64](func(context.Context, domain.Event[int64]) error {
		calls.Add(1)
		return nil
	})
	failing := application.EventHandlerFunc[domain.Event[int64], int64](func(context.Context, domain.Event[int64]) error {
		calls.Add(1)
		return errors.New("projection unavailable")
	})
	bus.RegisterHandler("BookingCancelled", ok)
	bus.RegisterHandler("BookingCancelled", failing)

	err := bus.Publish(context.Background(), domain.NewEvent("BookingCancelled", int64(9)))

	assert.EqualError(t, err, "projection unavailable")
	assert.Equal(t, int32(2), calls.Load())
}

func TestSimpleEventBus_NoHandlers(t *testing.T) {
	bus := NewSimpleEventBus[domain.Event[int64], int64](application.NopLogger{})

	assert.NoError(t, bus.Publish(context.Background(), domain.NewEvent("BookingRefunded", int64(1))))
}
