package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/internal/session"
)

// cancellationResults guarda o cancelamento produzido por um comando até que
// a mesma sessão o leia. Cada resultado é lido uma única vez.
type cancellationResults struct {
	mu      sync.Mutex
	results map[string]domain.Cancellation
}

func newCancellationResults() *cancellationResults {
	return &cancellationResults{results: make(map[string]domain.Cancellation)}
}

func byBookingKey(sessionID string, bookingID int64) string {
	return fmt.Sprintf("booking:%s:%d", sessionID, bookingID)
}

func byCancellationKey(sessionID string, cancellationID int64) string {
	return fmt.Sprintf("cancellation:%s:%d", sessionID, cancellationID)
}

func (r *cancellationResults) put(key string, c domain.Cancellation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[key] = c
}

func (r *cancellationResults) take(key string) (domain.Cancellation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.results[key]
	delete(r.results, key)
	return c, ok
}

// TakeCancellation devolve o cancelamento que a sessão acabou de pedir para
// a reserva.
func (w *Workflow) TakeCancellation(ctx context.Context, bookingID int64) (domain.Cancellation, bool) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return domain.Cancellation{}, false
	}
	return w.results.take(byBookingKey(s.ID, bookingID))
}

// TakeRefund devolve o cancelamento reembolsado pela sessão.
func (w *Workflow) TakeRefund(ctx context.Context, cancellationID int64) (domain.Cancellation, bool) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return domain.Cancellation{}, false
	}
	return w.results.take(byCancellationKey(s.ID, cancellationID))
}
