package domain

import (
	"fmt"
	"math"
)

type RefundStatus string

const (
	RefundPending  RefundStatus = "Pending"
	RefundRefunded RefundStatus = "Refunded"
)

// RefundRate é a fração devolvida no cancelamento (multa fixa de 20%).
const RefundRate = 0.8

type Cancellation struct {
	CancellationID   int64        `json:"cancellationId"`
	BookingID        int64        `json:"bookingId"`
	PaymentID        int64        `json:"paymentId"`
	RefundAmount     float64      `json:"refundAmount"`
	Reason           string       `json:"reason"`
	RefundStatus     RefundStatus `json:"refundStatus"`
	CancellationDate Timestamp    `json:"cancellationDate"`
	Booking          *Booking     `json:"booking,omitempty"`
	Payment          *Payment     `json:"payment,omitempty"`
}

func (c *Cancellation) Normalize() {
	if c.BookingID == 0 && c.Booking != nil {
		c.BookingID = c.Booking.BookingID
	}
	if c.PaymentID == 0 && c.Payment != nil {
		c.PaymentID = c.Payment.PaymentID
	}
}

func (c Cancellation) CheckEnums() error {
	switch c.RefundStatus {
	case "", RefundPending, RefundRefunded:
		return nil
	}
	return fmt.Errorf("%w: unknown refund status %q", ErrInvalidEntity, c.RefundStatus)
}

// CancellationRequest é o corpo de POST /api/cancellations/cancel.
type CancellationRequest struct {
	BookingID    int64   `json:"bookingId"`
	PaymentID    int64   `json:"paymentId"`
	RefundAmount float64 `json:"refundAmount"`
	Reason       string  `json:"reason"`
}

// RoundCents arredonda valores monetários para centavos.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// RefundAmount aplica a política fixa de reembolso.
func RefundAmount(total float64) float64 {
	return RoundCents(total * RefundRate)
}
