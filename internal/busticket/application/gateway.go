package application

import (
	"context"

	"github.com/mateusmacedo/go-bff/internal/backend"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

type AuthGateway interface {
	Login(ctx context.Context, username, password string) (backend.LoginResponse, error)
}

type CatalogGateway interface {
	ListBuses(ctx context.Context) ([]domain.Bus, error)
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	GetBus(ctx context.Context, id int64) (domain.Bus, error)
	GetRoute(ctx context.Context, id int64) (domain.Route, error)
	GetSeats(ctx context.Context, busID int64, date domain.Date) ([]domain.Seat, error)
}

type BookingGateway interface {
	MyBookings(ctx context.Context) ([]domain.Booking, error)
	AllBookings(ctx context.Context) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (domain.Booking, error)
	AddBooking(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	UpdateBooking(ctx context.Context, id int64, req domain.BookingRequest) (domain.Booking, error)
	ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.Payment, error)
	ProcessCheckout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error)
	PaymentForBooking(ctx context.Context, bookingID int64) (domain.Payment, error)
	Cancel(ctx context.Context, req domain.CancellationRequest) (domain.Cancellation, error)
	ProcessRefund(ctx context.Context, cancellationID int64) (domain.Cancellation, error)
	MyCancellations(ctx context.Context) ([]domain.Cancellation, error)
	AllCancellations(ctx context.Context) ([]domain.Cancellation, error)
}

type AdminGateway interface {
	AddBus(ctx context.Context, bus domain.Bus) (domain.Bus, error)
	UpdateBus(ctx context.Context, id int64, bus domain.Bus) (domain.Bus, error)
	AddRoute(ctx context.Context, route domain.Route) (domain.Route, error)
	UpdateRoute(ctx context.Context, id int64, route domain.Route) (domain.Route, error)
	AddSeat(ctx context.Context, seat domain.Seat) (domain.Seat, error)
	UpdateSeat(ctx context.Context, id int64, seat domain.Seat) (domain.Seat, error)
	ListOperators(ctx context.Context) ([]domain.Operator, error)
	AllPayments(ctx context.Context) ([]domain.Payment, error)
	DeleteBus(ctx context.Context, id int64) error
	DeleteRoute(ctx context.Context, id int64) error
	DeleteSeat(ctx context.Context, id int64) error
	DeleteOperator(ctx context.Context, id int64) error
	DeleteBooking(ctx context.Context, id int64) error
}

// Gateway é tudo o que a aplicação consome do backend remoto.
type Gateway interface {
	AuthGateway
	CatalogGateway
	BookingGateway
	AdminGateway
}

var _ Gateway = (*backend.Client)(nil)
