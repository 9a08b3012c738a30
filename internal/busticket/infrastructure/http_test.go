package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mateusmacedo/go-bff/internal/backend"
	"github.com/mateusmacedo/go-bff/internal/busticket/application"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/internal/session"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", application.ValidationErrors{{Field: "email", Message: "invalid"}}, http.StatusBadRequest},
		{"missing reason", application.ErrReasonRequired, http.StatusBadRequest},
		{"invalid entity", fmt.Errorf("%w: bus name is required", domain.ErrInvalidEntity), http.StatusBadRequest},
		{"unauthenticated", session.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("%w: booking 1", session.ErrForbidden), http.StatusForbidden},
		{"checkout not found", application.ErrCheckoutNotFound, http.StatusNotFound},
		{"unknown entity kind", application.ErrUnknownEntity, http.StatusNotFound},
		{"seat unavailable", application.ErrSeatUnavailable, http.StatusConflict},
		{"not cancellable", application.ErrNotCancellable, http.StatusConflict},
		{"backend 4xx passes through", &backend.APIError{StatusCode: http.StatusConflict, Message: "Seat A1 already booked"}, http.StatusConflict},
		{"backend 4xx inside a step", &application.StepError{Step: domain.StepCheckout, Err: &backend.APIError{StatusCode: http.StatusUnprocessableEntity}}, http.StatusUnprocessableEntity},
		{"backend 5xx", &backend.APIError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway},
		{"malformed response", fmt.Errorf("get route: %w", backend.ErrMalformedResponse), http.StatusBadGateway},
		{"catalog unavailable", fmt.Errorf("%w: %w", application.ErrCatalogUnavailable, errors.New("dial tcp")), http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, http.StatusBadGateway},
		{"transport failure inside a step", &application.StepError{Step: domain.StepSubmitPayment, Err: errors.New("connection refused")}, http.StatusBadGateway},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestErrorBody(t *testing.T) {
	body := errorBody(application.ValidationErrors{
		{Field: "email", Message: "invalid email"},
		{Field: "cvv", Message: "cvv must have 3 digits"},
	})
	assert.Equal(t, "validation failed", body.Message)
	assert.Len(t, body.Errors, 2)

	body = errorBody(errors.Join(session.ErrUnauthenticated, &backend.APIError{StatusCode: 401, Message: "Bad credentials"}))
	assert.Equal(t, "authentication required; Bad credentials", body.Message)
	assert.Empty(t, body.Errors)
}
