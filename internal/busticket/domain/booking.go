package domain

import (
	"context"
	"errors"
	"fmt"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingRefunded  BookingStatus = "Refunded"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingRefunded:
		return true
	}
	return false
}

// Cancellable: só reservas confirmadas podem ser canceladas.
func (s BookingStatus) Cancellable() bool {
	return s == BookingConfirmed
}

// UserRef é a visão resumida do usuário aninhada na reserva.
type UserRef struct {
	UserID   int64  `json:"userId"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Booking struct {
	BookingID      int64         `json:"bookingId"`
	UserID         int64         `json:"userId"`
	RouteID        int64         `json:"routeId"`
	BookingDate    Timestamp     `json:"bookingDate"`
	TravelDate     Date          `json:"travelDate"`
	TotalAmount    float64       `json:"totalAmount"`
	Status         BookingStatus `json:"status"`
	SeatNumbers    []string      `json:"seatNumbers"`
	PassengerCount int           `json:"passengerCount"`
	User           *UserRef      `json:"user,omitempty"`
	Route          *Route        `json:"route,omitempty"`
}

// Normalize preenche ids planos a partir das referências aninhadas.
func (b *Booking) Normalize() {
	if b.UserID == 0 && b.User != nil {
		b.UserID = b.User.UserID
	}
	if b.RouteID == 0 && b.Route != nil {
		b.RouteID = b.Route.RouteID
	}
	if b.PassengerCount == 0 {
		b.PassengerCount = len(b.SeatNumbers)
	}
}

func (b Booking) CheckEnums() error {
	if !b.Status.Valid() {
		return fmt.Errorf("%w: unknown booking status %q", ErrInvalidEntity, b.Status)
	}
	if b.Route != nil {
		return b.Route.CheckEnums()
	}
	return nil
}

// BookingRequest é o corpo de POST /api/bookings/add.
type BookingRequest struct {
	UserID         int64         `json:"userId"`
	RouteID        int64         `json:"routeId"`
	BookingDate    Timestamp     `json:"bookingDate"`
	TotalAmount    float64       `json:"totalAmount"`
	Status         BookingStatus `json:"status"`
	SeatNumbers    []string      `json:"seatNumbers"`
	PassengerCount int           `json:"passengerCount"`
	TravelDate     Date          `json:"travelDate"`
}

// BookingProjection mantém a visão local das reservas exibidas na lista,
// atualizada pelos eventos sem recarregar do backend.
type BookingProjection interface {
	Upsert(ctx context.Context, bookings ...Booking) error
	Get(ctx context.Context, bookingID int64) (Booking, bool, error)
	ListByUser(ctx context.Context, userID int64) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
	SetStatus(ctx context.Context, bookingID int64, status BookingStatus) error
	Delete(ctx context.Context, bookingID int64) error
}

// ErrBookingNotProjected indica que a reserva não está na projeção local.
var ErrBookingNotProjected = errors.New("booking not in projection")
