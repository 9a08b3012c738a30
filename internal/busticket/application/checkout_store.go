package application

import (
	"sync"
	"time"
)

// CheckoutStore mantém as compras na memória do processo até o descarte
// explícito ou até ficarem sem atividade além do período de retenção.
type CheckoutStore struct {
	mu        sync.RWMutex
	checkouts map[string]*Checkout
	retention time.Duration
}

func NewCheckoutStore(retention time.Duration) *CheckoutStore {
	return &CheckoutStore{checkouts: make(map[string]*Checkout), retention: retention}
}

func (s *CheckoutStore) Put(c *Checkout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkouts[c.id] = c
}

func (s *CheckoutStore) Get(id string) (*Checkout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.checkouts[id]
	return c, ok
}

func (s *CheckoutStore) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkouts, id)
}

// FindByBooking localiza a compra que originou a reserva, se ainda estiver
// na memória.
func (s *CheckoutStore) FindByBooking(bookingID int64) (*Checkout, bool) {
	s.mu.RLock()
	list := make([]*Checkout, 0, len(s.checkouts))
	for _, c := range s.checkouts {
		list = append(list, c)
	}
	s.mu.RUnlock()

	for _, c := range list {
		c.mu.Lock()
		match := c.booking != nil && c.booking.BookingID == bookingID
		c.mu.Unlock()
		if match {
			return c, true
		}
	}
	return nil, false
}

// Sweep remove compras sem atividade há mais tempo que a retenção. Compras
// ocupadas com uma requisição em curso ficam para a próxima varredura.
func (s *CheckoutStore) Sweep(now time.Time) int {
	if s.retention <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, c := range s.checkouts {
		if !c.mu.TryLock() {
			continue
		}
		stale := now.Sub(c.updatedAt) > s.retention
		c.mu.Unlock()
		if stale {
			delete(s.checkouts, id)
			removed++
		}
	}
	return removed
}

func (s *CheckoutStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.checkouts)
}
