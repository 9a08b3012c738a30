package application

import (
	"context"
	"fmt"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/internal/session"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
)

// EntityKind é o tipo de cadastro removível pela administração.
type EntityKind string

const (
	KindBus      EntityKind = "buses"
	KindRoute    EntityKind = "routes"
	KindSeat     EntityKind = "seats"
	KindOperator EntityKind = "operators"
	KindBooking  EntityKind = "bookings"
)

var deleteCapabilities = map[EntityKind]session.Capability{
	KindBus:      session.CapManageFleet,
	KindRoute:    session.CapManageFleet,
	KindSeat:     session.CapManageFleet,
	KindOperator: session.CapManageOperators,
	KindBooking:  session.CapDeleteBookings,
}

var ErrUnknownEntity = fmt.Errorf("%w: unknown entity kind", domain.ErrInvalidEntity)

type Admin struct {
	gateway    AdminGateway
	projection domain.BookingProjection
	logger     pkgApp.AppLogger
}

func NewAdmin(gateway AdminGateway, projection domain.BookingProjection, logger pkgApp.AppLogger) *Admin {
	return &Admin{gateway: gateway, projection: projection, logger: logger}
}

// Delete remove um cadastro após checar a capacidade exigida pelo tipo.
func (a *Admin) Delete(ctx context.Context, kind EntityKind, id int64) error {
	capability, ok := deleteCapabilities[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, kind)
	}
	s, ok := session.FromContext(ctx)
	if !ok {
		return session.ErrUnauthenticated
	}
	if err := s.Require(capability); err != nil {
		return err
	}

	var err error
	switch kind {
	case KindBus:
		err = a.gateway.DeleteBus(ctx, id)
	case KindRoute:
		err = a.gateway.DeleteRoute(ctx, id)
	case KindSeat:
		err = a.gateway.DeleteSeat(ctx, id)
	case KindOperator:
		err = a.gateway.DeleteOperator(ctx, id)
	case KindBooking:
		err = a.gateway.DeleteBooking(ctx, id)
	}
	if err != nil {
		pkgApp.LogError(ctx, a.logger, "Erro ao remover cadastro", err, map[string]interface{}{"kind": kind, "id": id})
		return err
	}

	if kind == KindBooking && a.projection != nil {
		_ = a.projection.Delete(ctx, id)
	}
	pkgApp.LogInfo(ctx, a.logger, "Cadastro removido", map[string]interface{}{"kind": kind, "id": id, "by": s.Username})
	return nil
}

func (a *Admin) requireFleet(ctx context.Context) (*session.Session, error) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrUnauthenticated
	}
	if err := s.Require(session.CapManageFleet); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveBus cadastra (id 0) ou atualiza um ônibus. As regras de cadastro são
// checadas antes de qualquer chamada ao backend.
func (a *Admin) SaveBus(ctx context.Context, id int64, bus domain.Bus) (domain.Bus, error) {
	s, err := a.requireFleet(ctx)
	if err != nil {
		return domain.Bus{}, err
	}
	if err := bus.Validate(); err != nil {
		return domain.Bus{}, err
	}

	var saved domain.Bus
	if id == 0 {
		saved, err = a.gateway.AddBus(ctx, bus)
	} else {
		saved, err = a.gateway.UpdateBus(ctx, id, bus)
	}
	if err != nil {
		pkgApp.LogError(ctx, a.logger, "Erro ao salvar ônibus", err, map[string]interface{}{"id": id})
		return domain.Bus{}, err
	}
	pkgApp.LogInfo(ctx, a.logger, "Ônibus salvo", map[string]interface{}{"bus_id": saved.BusID, "by": s.Username})
	return saved, nil
}

func (a *Admin) SaveRoute(ctx context.Context, id int64, route domain.Route) (domain.Route, error) {
	s, err := a.requireFleet(ctx)
	if err != nil {
		return domain.Route{}, err
	}
	if err := route.Validate(); err != nil {
		return domain.Route{}, err
	}

	var saved domain.Route
	if id == 0 {
		saved, err = a.gateway.AddRoute(ctx, route)
	} else {
		saved, err = a.gateway.UpdateRoute(ctx, id, route)
	}
	if err != nil {
		pkgApp.LogError(ctx, a.logger, "Erro ao salvar rota", err, map[string]interface{}{"id": id})
		return domain.Route{}, err
	}
	pkgApp.LogInfo(ctx, a.logger, "Rota salva", map[string]interface{}{"route_id": saved.RouteID, "by": s.Username})
	return saved, nil
}

func (a *Admin) SaveSeat(ctx context.Context, id int64, seat domain.Seat) (domain.Seat, error) {
	s, err := a.requireFleet(ctx)
	if err != nil {
		return domain.Seat{}, err
	}
	if err := seat.Validate(); err != nil {
		return domain.Seat{}, err
	}

	var saved domain.Seat
	if id == 0 {
		saved, err = a.gateway.AddSeat(ctx, seat)
	} else {
		saved, err = a.gateway.UpdateSeat(ctx, id, seat)
	}
	if err != nil {
		pkgApp.LogError(ctx, a.logger, "Erro ao salvar assento", err, map[string]interface{}{"id": id})
		return domain.Seat{}, err
	}
	pkgApp.LogInfo(ctx, a.logger, "Assento salvo", map[string]interface{}{"seat_id": saved.SeatID, "by": s.Username})
	return saved, nil
}

func (a *Admin) require(ctx context.Context, c session.Capability) error {
	s, ok := session.FromContext(ctx)
	if !ok {
		return session.ErrUnauthenticated
	}
	return s.Require(c)
}

// Operators lista as operadoras cadastradas; só administradores.
func (a *Admin) Operators(ctx context.Context) ([]domain.Operator, error) {
	if err := a.require(ctx, session.CapManageOperators); err != nil {
		return nil, err
	}
	return a.gateway.ListOperators(ctx)
}

// Payments lista todos os pagamentos; exige a visão global de reservas.
func (a *Admin) Payments(ctx context.Context) ([]domain.Payment, error) {
	if err := a.require(ctx, session.CapViewAllBookings); err != nil {
		return nil, err
	}
	return a.gateway.AllPayments(ctx)
}
