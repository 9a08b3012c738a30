package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

// State é a etapa atual de uma compra.
type State string

const (
	StateIdle             State = "Idle"
	StateSeatsSelected    State = "SeatsSelected"
	StateBookingSubmitted State = "BookingSubmitted"
	StatePaymentSubmitted State = "PaymentSubmitted"
	StateConfirmed        State = "Confirmed"
	StateCancelled        State = "Cancelled"
	StateRefundRequested  State = "RefundRequested"
	StateRefunded         State = "Refunded"
	// StateVoided: a reserva foi anulada porque o pagamento falhou.
	StateVoided State = "Voided"
)

var transitions = map[State][]State{
	StateIdle:             {StateSeatsSelected},
	StateSeatsSelected:    {StateIdle, StateSeatsSelected, StateBookingSubmitted, StateConfirmed},
	StateBookingSubmitted: {StatePaymentSubmitted, StateVoided},
	StatePaymentSubmitted: {StateConfirmed, StateVoided},
	StateConfirmed:        {StateCancelled},
	StateCancelled:        {StateRefundRequested, StateRefunded},
	StateRefundRequested:  {StateRefunded},
}

func (s State) canMoveTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal indica que a compra não aceita mais etapas do fluxo de checkout.
func (s State) Terminal() bool {
	switch s {
	case StateRefunded, StateVoided:
		return true
	}
	return false
}

// Checkout é uma tentativa de compra. Todo acesso passa pelo mutex, de modo
// que requisições concorrentes sobre a mesma compra são serializadas.
type Checkout struct {
	mu sync.Mutex

	id             string
	sessionID      string
	userID         int64
	idempotencyKey string
	route          domain.Route
	travelDate     domain.Date
	seats          *SeatMap
	selected       []string

	state        State
	booking      *domain.Booking
	payment      *domain.Payment
	cancellation *domain.Cancellation
	failedStep   domain.CheckoutStep
	lastErr      error
	updatedAt    time.Time
}

func newCheckout(id, sessionID string, userID int64, idempotencyKey string, route domain.Route, travelDate domain.Date, seats *SeatMap, now time.Time) *Checkout {
	return &Checkout{
		id:             id,
		sessionID:      sessionID,
		userID:         userID,
		idempotencyKey: idempotencyKey,
		route:          route,
		travelDate:     travelDate,
		seats:          seats,
		state:          StateIdle,
		updatedAt:      now,
	}
}

func (c *Checkout) ID() string { return c.id }

// move deve ser chamado com o mutex travado.
func (c *Checkout) move(next State, now time.Time) error {
	if !c.state.canMoveTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, next)
	}
	c.state = next
	c.updatedAt = now
	return nil
}

func (c *Checkout) fail(step domain.CheckoutStep, err error, now time.Time) {
	c.failedStep = step
	c.lastErr = err
	c.updatedAt = now
}

func (c *Checkout) clearFailure() {
	c.failedStep = ""
	c.lastErr = nil
}

func (c *Checkout) isSelected(seatNumber string) int {
	for i, s := range c.selected {
		if s == seatNumber {
			return i
		}
	}
	return -1
}

// selectSeat deve ser chamado com o mutex travado.
func (c *Checkout) selectSeat(seatNumber string, now time.Time) error {
	if c.state != StateIdle && c.state != StateSeatsSelected {
		return fmt.Errorf("%w: cannot change seats in state %s", ErrInvalidTransition, c.state)
	}
	seat, ok := c.seats.Lookup(seatNumber)
	if !ok || seat.Booked() {
		return fmt.Errorf("%w: %s", ErrSeatUnavailable, seatNumber)
	}
	if c.isSelected(seat.SeatNumber) >= 0 {
		return nil
	}
	c.selected = append(c.selected, seat.SeatNumber)
	return c.move(StateSeatsSelected, now)
}

func (c *Checkout) deselectSeat(seatNumber string, now time.Time) error {
	if c.state != StateIdle && c.state != StateSeatsSelected {
		return fmt.Errorf("%w: cannot change seats in state %s", ErrInvalidTransition, c.state)
	}
	seat, ok := c.seats.Lookup(seatNumber)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSeatUnavailable, seatNumber)
	}
	i := c.isSelected(seat.SeatNumber)
	if i < 0 {
		return nil
	}
	c.selected = append(c.selected[:i], c.selected[i+1:]...)
	if len(c.selected) == 0 {
		return c.move(StateIdle, now)
	}
	return nil
}

// CheckoutSnapshot é a visão imutável usada para renderização.
type CheckoutSnapshot struct {
	ID           string               `json:"id"`
	State        State                `json:"state"`
	Final        bool                 `json:"final"`
	Route        domain.Route         `json:"route"`
	TravelDate   domain.Date          `json:"travelDate"`
	SeatMap      *SeatMap             `json:"seatMap"`
	Selected     []string             `json:"selectedSeats"`
	Fare         float64              `json:"fare"`
	Booking      *domain.Booking      `json:"booking,omitempty"`
	Payment      *domain.Payment      `json:"payment,omitempty"`
	Cancellation *domain.Cancellation `json:"cancellation,omitempty"`
	FailedStep   domain.CheckoutStep  `json:"failedStep,omitempty"`
	LastError    string               `json:"lastError,omitempty"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// BookingID devolve o id da reserva confirmada, quando houver.
func (s CheckoutSnapshot) BookingID() int64 {
	if s.Booking == nil {
		return 0
	}
	return s.Booking.BookingID
}

func (s CheckoutSnapshot) PaymentID() int64 {
	if s.Payment == nil {
		return 0
	}
	return s.Payment.PaymentID
}

// Snapshot copia o estado atual sob o mutex.
func (c *Checkout) Snapshot() CheckoutSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Checkout) snapshot() CheckoutSnapshot {
	snap := CheckoutSnapshot{
		ID:         c.id,
		State:      c.state,
		Final:      c.state.Terminal(),
		Route:      c.route,
		TravelDate: c.travelDate,
		SeatMap:    c.seats,
		Selected:   append([]string{}, c.selected...),
		Fare:       ComputeFare(c.selected, c.route),
		FailedStep: c.failedStep,
		UpdatedAt:  c.updatedAt,
	}
	if c.booking != nil {
		b := *c.booking
		b.SeatNumbers = append([]string(nil), b.SeatNumbers...)
		snap.Booking = &b
	}
	if c.payment != nil {
		p := *c.payment
		snap.Payment = &p
	}
	if c.cancellation != nil {
		cn := *c.cancellation
		snap.Cancellation = &cn
	}
	if c.lastErr != nil {
		snap.LastError = c.lastErr.Error()
	}
	return snap
}
