package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
)

// InMemoryCheckoutJournal é o diário usado quando JOURNAL_DSN não está definido.
type InMemoryCheckoutJournal struct {
	mu     sync.RWMutex
	data   map[string]domain.CheckoutEntry
	logger pkgApp.AppLogger
}

func NewInMemoryCheckoutJournal(logger pkgApp.AppLogger) *InMemoryCheckoutJournal {
	return &InMemoryCheckoutJournal{
		data:   make(map[string]domain.CheckoutEntry),
		logger: logger,
	}
}

func (r *InMemoryCheckoutJournal) Save(ctx context.Context, entry domain.CheckoutEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[entry.ID] = entry
	pkgApp.LogDebug(ctx, r.logger, "checkout entry saved", map[string]interface{}{
		"checkout_id": entry.ID,
		"step":        entry.Step,
		"outcome":     entry.Outcome,
	})
	return nil
}

func (r *InMemoryCheckoutJournal) FindByID(_ context.Context, id string) (domain.CheckoutEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.data[id]
	if !ok {
		return domain.CheckoutEntry{}, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	return entry, nil
}

func (r *InMemoryCheckoutJournal) FindUnresolved(_ context.Context) ([]domain.CheckoutEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []domain.CheckoutEntry{}
	for _, e := range r.data {
		if e.Outcome == domain.OutcomeUnresolved {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UpdatedAt.Before(entries[j].UpdatedAt) })
	return entries, nil
}

// InMemoryBookingProjection guarda a última visão conhecida de cada reserva,
// alimentada pelo fluxo de compra e pelos eventos de reserva.
type InMemoryBookingProjection struct {
	mu       sync.RWMutex
	bookings map[int64]domain.Booking
}

func NewInMemoryBookingProjection() *InMemoryBookingProjection {
	return &InMemoryBookingProjection{bookings: make(map[int64]domain.Booking)}
}

func (p *InMemoryBookingProjection) Upsert(_ context.Context, bookings ...domain.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range bookings {
		if b.BookingID == 0 {
			continue
		}
		b.SeatNumbers = append([]string(nil), b.SeatNumbers...)
		p.bookings[b.BookingID] = b
	}
	return nil
}

func (p *InMemoryBookingProjection) Get(_ context.Context, id int64) (domain.Booking, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b, ok := p.bookings[id]
	return b, ok, nil
}

func (p *InMemoryBookingProjection) list(keep func(domain.Booking) bool) []domain.Booking {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := []domain.Booking{}
	for _, b := range p.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID > out[j].BookingID })
	return out
}

// ListByUser devolve as reservas do usuário, mais recentes primeiro.
func (p *InMemoryBookingProjection) ListByUser(_ context.Context, userID int64) ([]domain.Booking, error) {
	return p.list(func(b domain.Booking) bool { return b.UserID == userID }), nil
}

func (p *InMemoryBookingProjection) ListAll(_ context.Context) ([]domain.Booking, error) {
	return p.list(func(domain.Booking) bool { return true }), nil
}

func (p *InMemoryBookingProjection) SetStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.bookings[id]
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrBookingNotProjected, id)
	}
	b.Status = status
	p.bookings[id] = b
	return nil
}

func (p *InMemoryBookingProjection) Delete(_ context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.bookings, id)
	return nil
}
