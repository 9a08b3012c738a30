package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-bff/pkg/domain"
)

type openCheckoutHandler struct {
	workflow *Workflow
	logger   pkgApp.AppLogger
}

func (h *openCheckoutHandler) Handle(ctx context.Context, command pkgDomain.Command[OpenCheckoutData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}
	_, err := h.workflow.OpenCheckout(ctx, command.Payload())
	return err
}

func NewOpenCheckoutHandler(workflow *Workflow, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[OpenCheckoutData], OpenCheckoutData] {
	return &openCheckoutHandler{workflow: workflow, logger: logger}
}

type toggleSeatHandler struct {
	workflow *Workflow
	logger   pkgApp.AppLogger
}

func (h *toggleSeatHandler) Handle(ctx context.Context, command pkgDomain.Command[ToggleSeatData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}
	_, err := h.workflow.toggleSeat(ctx, command.Payload())
	return err
}

func NewToggleSeatHandler(workflow *Workflow, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[ToggleSeatData], ToggleSeatData] {
	return &toggleSeatHandler{workflow: workflow, logger: logger}
}

type checkoutBookingHandler struct {
	workflow *Workflow
	logger   pkgApp.AppLogger
}

func (h *checkoutBookingHandler) Handle(ctx context.Context, command pkgDomain.Command[CheckoutBookingData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	pkgApp.LogInfo(ctx, h.logger, "Concluindo compra", map[string]interface{}{
		"checkout_id": data.CheckoutID,
		"mode":        h.workflow.Mode(),
	})
	_, err := h.workflow.Checkout(ctx, data)
	return err
}

func NewCheckoutBookingHandler(workflow *Workflow, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CheckoutBookingData], CheckoutBookingData] {
	return &checkoutBookingHandler{workflow: workflow, logger: logger}
}

type cancelBookingHandler struct {
	workflow *Workflow
	logger   pkgApp.AppLogger
}

func (h *cancelBookingHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelBookingData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}
	_, err := h.workflow.Cancel(ctx, command.Payload())
	return err
}

func NewCancelBookingHandler(workflow *Workflow, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CancelBookingData], CancelBookingData] {
	return &cancelBookingHandler{workflow: workflow, logger: logger}
}

type processRefundHandler struct {
	workflow *Workflow
	logger   pkgApp.AppLogger
}

func (h *processRefundHandler) Handle(ctx context.Context, command pkgDomain.Command[ProcessRefundData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}
	_, err := h.workflow.ProcessRefund(ctx, command.Payload())
	return err
}

func NewProcessRefundHandler(workflow *Workflow, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[ProcessRefundData], ProcessRefundData] {
	return &processRefundHandler{workflow: workflow, logger: logger}
}

type findBusesHandler struct {
	gateway CatalogGateway
	logger  pkgApp.AppLogger
}

// Handle carrega ônibus e rotas a cada chamada, sem cache nem retentativa.
func (h *findBusesHandler) Handle(ctx context.Context, _ pkgDomain.Query[FindBusesData]) ([]BusRoutes, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	buses, err := h.gateway.ListBuses(ctx)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao carregar ônibus", err, nil)
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	routes, err := h.gateway.ListRoutes(ctx)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao carregar rotas", err, nil)
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return JoinRoutes(buses, routes), nil
}

func NewFindBusesHandler(gateway CatalogGateway, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[FindBusesData], FindBusesData, []BusRoutes] {
	return &findBusesHandler{gateway: gateway, logger: logger}
}

type findRoutesHandler struct {
	gateway CatalogGateway
	logger  pkgApp.AppLogger
}

func (h *findRoutesHandler) Handle(ctx context.Context, query pkgDomain.Query[RouteFilter]) ([]domain.Route, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	routes, err := h.gateway.ListRoutes(ctx)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao carregar rotas", err, nil)
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	filter := query.Payload()
	found := SearchRoutes(routes, filter)
	pkgApp.LogDebug(ctx, h.logger, "Rotas encontradas", map[string]interface{}{
		"origin":      filter.Origin,
		"destination": filter.Destination,
		"count":       len(found),
	})
	return found, nil
}

func NewFindRoutesHandler(gateway CatalogGateway, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[RouteFilter], RouteFilter, []domain.Route] {
	return &findRoutesHandler{gateway: gateway, logger: logger}
}

type findSeatsHandler struct {
	gateway CatalogGateway
	logger  pkgApp.AppLogger
}

func (h *findSeatsHandler) Handle(ctx context.Context, query pkgDomain.Query[FindSeatsData]) (*SeatMap, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	data := query.Payload()
	seats, err := h.gateway.GetSeats(ctx, data.BusID, data.Date)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao carregar assentos", err, map[string]interface{}{
			"bus_id": data.BusID,
			"date":   data.Date.String(),
		})
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return BuildSeatMap(data.BusID, data.Date, seats), nil
}

func NewFindSeatsHandler(gateway CatalogGateway, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[FindSeatsData], FindSeatsData, *SeatMap] {
	return &findSeatsHandler{gateway: gateway, logger: logger}
}

type listBookingsHandler struct {
	workflow *Workflow
	logger   pkgApp.AppLogger
}

func (h *listBookingsHandler) Handle(ctx context.Context, query pkgDomain.Query[ListBookingsData]) ([]domain.Booking, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}
	return h.workflow.ListBookings(ctx, query.Payload())
}

func NewListBookingsHandler(workflow *Workflow, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[ListBookingsData], ListBookingsData, []domain.Booking] {
	return &listBookingsHandler{workflow: workflow, logger: logger}
}

// bookingProjectionHandler mantém a projeção coerente com eventos vindos de
// outras instâncias; reaplicar um evento não altera o resultado.
type bookingProjectionHandler struct {
	projection domain.BookingProjection
	logger     pkgApp.AppLogger
}

func (h *bookingProjectionHandler) Handle(ctx context.Context, event BookingEvent) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	data := event.Payload()
	if data.Booking != nil {
		b := *data.Booking
		b.Status = data.Status
		return h.projection.Upsert(ctx, b)
	}
	if data.BookingID == 0 {
		return nil
	}
	err := h.projection.SetStatus(ctx, data.BookingID, data.Status)
	if errors.Is(err, domain.ErrBookingNotProjected) {
		pkgApp.LogDebug(ctx, h.logger, "Reserva fora da projeção", map[string]interface{}{"booking_id": data.BookingID})
		return nil
	}
	return err
}

func NewBookingProjectionHandler(projection domain.BookingProjection, logger pkgApp.AppLogger) pkgApp.EventHandler[BookingEvent, BookingEventData] {
	return &bookingProjectionHandler{projection: projection, logger: logger}
}

type bookingAuditHandler struct {
	logger pkgApp.AppLogger
}

func (h *bookingAuditHandler) Handle(ctx context.Context, event BookingEvent) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	data := event.Payload()
	pkgApp.LogInfo(ctx, h.logger, "Evento de reserva", map[string]interface{}{
		"event_name":      event.EventName(),
		"booking_id":      data.BookingID,
		"user_id":         data.UserID,
		"status":          data.Status,
		"checkout_id":     data.CheckoutID,
		"payment_id":      data.PaymentID,
		"cancellation_id": data.CancellationID,
		"refund_amount":   data.RefundAmount,
	})
	return nil
}

func NewBookingAuditHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[BookingEvent, BookingEventData] {
	return &bookingAuditHandler{logger: logger}
}
