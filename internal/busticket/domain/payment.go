package domain

import "fmt"

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "Success"
	PaymentFailed  PaymentStatus = "Failed"
)

type Payment struct {
	PaymentID     int64         `json:"paymentId"`
	BookingID     int64         `json:"bookingId,omitempty"`
	AmountPaid    float64       `json:"amountPaid"`
	PaymentDate   Timestamp     `json:"paymentDate"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod"`
	Booking       *Booking      `json:"booking,omitempty"`
}

func (p *Payment) Normalize() {
	if p.BookingID == 0 && p.Booking != nil {
		p.BookingID = p.Booking.BookingID
	}
}

func (p Payment) CheckEnums() error {
	switch p.PaymentStatus {
	case PaymentSuccess, PaymentFailed:
		return nil
	}
	return fmt.Errorf("%w: unknown payment status %q", ErrInvalidEntity, p.PaymentStatus)
}

// PaymentRequest é o corpo de POST /api/payments/process.
type PaymentRequest struct {
	BookingID     int64         `json:"bookingId,omitempty"`
	AmountPaid    float64       `json:"amountPaid"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// CheckoutRequest é a variante combinada {booking, payment}.
type CheckoutRequest struct {
	Booking BookingRequest `json:"booking"`
	Payment PaymentRequest `json:"payment"`
}

// CheckoutResult é a resposta {booking, payment} do backend.
type CheckoutResult struct {
	Booking Booking `json:"booking"`
	Payment Payment `json:"payment"`
}

func (r CheckoutResult) CheckEnums() error {
	if err := r.Booking.CheckEnums(); err != nil {
		return err
	}
	return r.Payment.CheckEnums()
}
