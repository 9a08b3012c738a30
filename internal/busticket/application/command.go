package application

import (
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	pkgDomain "github.com/mateusmacedo/go-bff/pkg/domain"
)

const (
	OpenCheckoutCommand    = "OpenCheckout"
	ToggleSeatCommand      = "ToggleSeat"
	CheckoutBookingCommand = "CheckoutBooking"
	CancelBookingCommand   = "CancelBooking"
	ProcessRefundCommand   = "ProcessRefund"
)

// OpenCheckoutData abre uma compra; o id é gerado por quem despacha o
// comando para que o resultado possa ser lido em seguida.
type OpenCheckoutData struct {
	CheckoutID string
	RouteID    int64
	TravelDate domain.Date
}

func NewOpenCheckoutCommand(data OpenCheckoutData) pkgDomain.Command[OpenCheckoutData] {
	return pkgDomain.NewCommand(OpenCheckoutCommand, data)
}

type ToggleSeatData struct {
	CheckoutID string
	SeatNumber string
	Selected   bool
}

func NewToggleSeatCommand(data ToggleSeatData) pkgDomain.Command[ToggleSeatData] {
	return pkgDomain.NewCommand(ToggleSeatCommand, data)
}

type CheckoutBookingData struct {
	CheckoutID string
	Form       PaymentForm
}

func NewCheckoutBookingCommand(data CheckoutBookingData) pkgDomain.Command[CheckoutBookingData] {
	return pkgDomain.NewCommand(CheckoutBookingCommand, data)
}

type CancelBookingData struct {
	BookingID int64
	Reason    string
}

func NewCancelBookingCommand(data CancelBookingData) pkgDomain.Command[CancelBookingData] {
	return pkgDomain.NewCommand(CancelBookingCommand, data)
}

type ProcessRefundData struct {
	CancellationID int64
	// BookingID é opcional; usado quando o backend não devolve a reserva.
	BookingID int64
}

func NewProcessRefundCommand(data ProcessRefundData) pkgDomain.Command[ProcessRefundData] {
	return pkgDomain.NewCommand(ProcessRefundCommand, data)
}
