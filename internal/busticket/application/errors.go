package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

var (
	ErrNoSeatsSelected    = errors.New("select at least one seat")
	ErrSeatUnavailable    = errors.New("seat is not available")
	ErrInvalidTransition  = errors.New("operation not allowed in the current checkout state")
	ErrNotCancellable     = errors.New("only confirmed bookings can be cancelled")
	ErrReasonRequired     = errors.New("a cancellation reason is required")
	ErrCatalogUnavailable = errors.New("failed to load")
	ErrCheckoutNotFound   = errors.New("checkout not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrPaymentDeclined    = errors.New("payment was not successful")
)

// FieldError descreve um problema de validação em um campo do formulário.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors acumula todos os problemas encontrados antes de qualquer
// chamada de rede, na ordem em que foram verificados.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// OrNil evita devolver uma interface error não-nula com lista vazia.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// StepError envolve a falha de uma etapa do fluxo em um erro descritivo,
// preservando a causa original.
type StepError struct {
	Step domain.CheckoutStep
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", strings.ReplaceAll(string(e.Step), "_", " "), e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepError(step domain.CheckoutStep, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}
