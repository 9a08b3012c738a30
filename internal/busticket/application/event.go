package application

import (
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-bff/pkg/domain"
)

const (
	BookingConfirmedEvent    = "BookingConfirmed"
	BookingCancelledEvent    = "BookingCancelled"
	BookingRefundedEvent     = "BookingRefunded"
	CheckoutCompensatedEvent = "CheckoutCompensated"
)

// BookingEventNames lista os tópicos publicados pelo fluxo de reservas.
var BookingEventNames = []string{
	BookingConfirmedEvent,
	BookingCancelledEvent,
	BookingRefundedEvent,
	CheckoutCompensatedEvent,
}

// BookingEventData é o payload comum aos eventos de reserva.
type BookingEventData struct {
	CheckoutID     string               `json:"checkoutId,omitempty"`
	BookingID      int64                `json:"bookingId"`
	UserID         int64                `json:"userId"`
	Status         domain.BookingStatus `json:"status"`
	TotalAmount    float64              `json:"totalAmount,omitempty"`
	PaymentID      int64                `json:"paymentId,omitempty"`
	CancellationID int64                `json:"cancellationId,omitempty"`
	RefundAmount   float64              `json:"refundAmount,omitempty"`
	Reason         string               `json:"reason,omitempty"`
	Booking        *domain.Booking      `json:"booking,omitempty"`
}

type BookingEvent = pkgDomain.Event[BookingEventData]

type BookingEventBus = pkgApp.EventBus[BookingEvent, BookingEventData]

func NewBookingConfirmedEvent(data BookingEventData) BookingEvent {
	return pkgDomain.NewEvent(BookingConfirmedEvent, data)
}

func NewBookingCancelledEvent(data BookingEventData) BookingEvent {
	return pkgDomain.NewEvent(BookingCancelledEvent, data)
}

func NewBookingRefundedEvent(data BookingEventData) BookingEvent {
	return pkgDomain.NewEvent(BookingRefundedEvent, data)
}

func NewCheckoutCompensatedEvent(data BookingEventData) BookingEvent {
	return pkgDomain.NewEvent(CheckoutCompensatedEvent, data)
}
