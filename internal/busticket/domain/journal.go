package domain

import (
	"context"
	"errors"
	"time"
)

// CheckoutStep identifica a etapa do fluxo de compra registrada no diário.
type CheckoutStep string

const (
	StepSubmitBooking CheckoutStep = "submit_booking"
	StepSubmitPayment CheckoutStep = "submit_payment"
	StepCheckout      CheckoutStep = "checkout"
	StepCompensate    CheckoutStep = "compensate"
	StepCancel        CheckoutStep = "cancel"
	StepRefund        CheckoutStep = "refund"
)

type CheckoutOutcome string

const (
	OutcomePending     CheckoutOutcome = "Pending"
	OutcomeCompleted   CheckoutOutcome = "Completed"
	OutcomeCompensated CheckoutOutcome = "Compensated"
	// OutcomeUnresolved marca falhas parciais que exigem intervenção manual.
	OutcomeUnresolved CheckoutOutcome = "Unresolved"
)

var ErrEntryNotFound = errors.New("checkout entry not found")

// CheckoutEntry é o registro durável de uma tentativa de compra.
type CheckoutEntry struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	UserID    int64           `json:"userId" gorm:"index"`
	BookingID int64           `json:"bookingId,omitempty"`
	PaymentID int64           `json:"paymentId,omitempty"`
	Step      CheckoutStep    `json:"step" gorm:"size:32"`
	Outcome   CheckoutOutcome `json:"outcome" gorm:"size:16;index"`
	Error     string          `json:"error,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CheckoutJournal persiste o andamento de cada compra para que falhas
// parciais não se percam. Save insere ou substitui a entrada pelo ID.
type CheckoutJournal interface {
	Save(ctx context.Context, entry CheckoutEntry) error
	FindByID(ctx context.Context, id string) (CheckoutEntry, error)
	FindUnresolved(ctx context.Context) ([]CheckoutEntry, error)
}
