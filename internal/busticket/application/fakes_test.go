package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mateusmacedo/go-bff/internal/backend"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/internal/clock"
	"github.com/mateusmacedo/go-bff/internal/config"
	"github.com/mateusmacedo/go-bff/internal/metrics"
	"github.com/mateusmacedo/go-bff/internal/session"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-bff/pkg/infrastructure"
)

type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	buses    []domain.Bus
	routes   []domain.Route
	seats    []domain.Seat
	bookings map[int64]domain.Booking

	nextBookingID int64
	nextPaymentID int64

	addBookingErr error
	paymentErr    error
	checkoutErr   error
	updateErr     error
	cancelErr     error
	catalogErr    error
	getBookingErr error

	lastBookingReq  domain.BookingRequest
	lastPaymentReq  domain.PaymentRequest
	lastCheckoutReq domain.CheckoutRequest
	lastUpdateReq   domain.BookingRequest
	lastCancelReq   domain.CancellationRequest
}

func newFakeGateway() *fakeGateway {
	dep := domain.NewTimestamp(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	bus := &domain.Bus{BusID: 1, BusName: "Express", BusNumber: "TN01", BusType: domain.BusTypeAC, TotalSeats: 4}
	return &fakeGateway{
		buses: []domain.Bus{*bus, {BusID: 2, BusName: "Idle", BusType: domain.BusTypeSleeper, TotalSeats: 30}},
		routes: []domain.Route{
			{RouteID: 10, Origin: "Chennai", Destination: "Bangalore", DepartureTime: dep, ArrivalTime: domain.NewTimestamp(dep.Add(6 * time.Hour)), Fare: 500, Bus: bus},
			{RouteID: 11, Origin: "Chennai", Destination: "Madurai", DepartureTime: dep, ArrivalTime: domain.NewTimestamp(dep.Add(8 * time.Hour)), Fare: 700, Bus: bus},
		},
		seats: []domain.Seat{
			{SeatID: 1, SeatNumber: "A1", SeatType: domain.SeatTypeWindow, SeatStatus: domain.SeatAvailable},
			{SeatID: 2, SeatNumber: "A2", SeatType: domain.SeatTypeNormal, SeatStatus: domain.SeatAvailable},
			{SeatID: 3, SeatNumber: "B1", SeatType: domain.SeatTypeWindow, SeatStatus: domain.SeatBooked},
			{SeatID: 4, SeatNumber: "B2", SeatType: domain.SeatTypeNormal, SeatStatus: domain.SeatAvailable},
		},
		bookings:      map[int64]domain.Booking{},
		nextBookingID: 100,
		nextPaymentID: 500,
	}
}

func (g *fakeGateway) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *fakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGateway) Login(_ context.Context, username, _ string) (backend.LoginResponse, error) {
	g.record("Login")
	if username == "intruder" {
		return backend.LoginResponse{}, &backend.APIError{StatusCode: 401, Message: "Invalid credentials"}
	}
	return backend.LoginResponse{Token: "opaque-token", Role: "USER", Username: username, UserID: 7}, nil
}

func (g *fakeGateway) ListBuses(context.Context) ([]domain.Bus, error) {
	g.record("ListBuses")
	return g.buses, g.catalogErr
}

func (g *fakeGateway) ListRoutes(context.Context) ([]domain.Route, error) {
	g.record("ListRoutes")
	return g.routes, g.catalogErr
}

func (g *fakeGateway) GetBus(_ context.Context, id int64) (domain.Bus, error) {
	g.record("GetBus")
	for _, b := range g.buses {
		if b.BusID == id {
			return b, nil
		}
	}
	return domain.Bus{}, &backend.APIError{StatusCode: 404, Message: "Bus not found"}
}

func (g *fakeGateway) GetRoute(_ context.Context, id int64) (domain.Route, error) {
	g.record("GetRoute")
	for _, r := range g.routes {
		if r.RouteID == id {
			return r, nil
		}
	}
	return domain.Route{}, &backend.APIError{StatusCode: 404, Message: "Route not found"}
}

func (g *fakeGateway) GetSeats(context.Context, int64, domain.Date) ([]domain.Seat, error) {
	g.record("GetSeats")
	return g.seats, g.catalogErr
}

func (g *fakeGateway) MyBookings(context.Context) ([]domain.Booking, error) {
	g.record("MyBookings")
	var out []domain.Booking
	for _, b := range g.bookings {
		if b.UserID == 7 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (g *fakeGateway) AllBookings(context.Context) ([]domain.Booking, error) {
	g.record("AllBookings")
	var out []domain.Booking
	for _, b := range g.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (g *fakeGateway) GetBooking(_ context.Context, id int64) (domain.Booking, error) {
	g.record("GetBooking")
	if g.getBookingErr != nil {
		return domain.Booking{}, g.getBookingErr
	}
	b, ok := g.bookings[id]
	if !ok {
		return domain.Booking{}, &backend.APIError{StatusCode: 404, Message: "Booking not found"}
	}
	return b, nil
}

func (g *fakeGateway) newBooking(req domain.BookingRequest) domain.Booking {
	g.nextBookingID++
	b := domain.Booking{
		BookingID:      g.nextBookingID,
		UserID:         req.UserID,
		RouteID:        req.RouteID,
		BookingDate:    req.BookingDate,
		TravelDate:     req.TravelDate,
		TotalAmount:    req.TotalAmount,
		Status:         req.Status,
		SeatNumbers:    req.SeatNumbers,
		PassengerCount: req.PassengerCount,
	}
	g.bookings[b.BookingID] = b
	return b
}

func (g *fakeGateway) AddBooking(_ context.Context, req domain.BookingRequest) (domain.Booking, error) {
	g.record("AddBooking")
	g.lastBookingReq = req
	if g.addBookingErr != nil {
		return domain.Booking{}, g.addBookingErr
	}
	return g.newBooking(req), nil
}

func (g *fakeGateway) UpdateBooking(_ context.Context, id int64, req domain.BookingRequest) (domain.Booking, error) {
	g.record("UpdateBooking")
	g.lastUpdateReq = req
	if g.updateErr != nil {
		return domain.Booking{}, g.updateErr
	}
	b := g.bookings[id]
	b.Status = req.Status
	g.bookings[id] = b
	return b, nil
}

func (g *fakeGateway) ProcessPayment(_ context.Context, req domain.PaymentRequest) (domain.Payment, error) {
	g.record("ProcessPayment")
	g.lastPaymentReq = req
	if g.paymentErr != nil {
		return domain.Payment{}, g.paymentErr
	}
	g.nextPaymentID++
	return domain.Payment{PaymentID: g.nextPaymentID, BookingID: req.BookingID, AmountPaid: req.AmountPaid, PaymentStatus: req.PaymentStatus, PaymentMethod: req.PaymentMethod}, nil
}

func (g *fakeGateway) ProcessCheckout(_ context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	g.record("ProcessCheckout")
	g.lastCheckoutReq = req
	if g.checkoutErr != nil {
		return domain.CheckoutResult{}, g.checkoutErr
	}
	b := g.newBooking(req.Booking)
	g.nextPaymentID++
	p := domain.Payment{PaymentID: g.nextPaymentID, BookingID: b.BookingID, AmountPaid: req.Payment.AmountPaid, PaymentStatus: req.Payment.PaymentStatus, PaymentMethod: req.Payment.PaymentMethod}
	return domain.CheckoutResult{Booking: b, Payment: p}, nil
}

func (g *fakeGateway) PaymentForBooking(_ context.Context, bookingID int64) (domain.Payment, error) {
	g.record("PaymentForBooking")
	return domain.Payment{PaymentID: 900 + bookingID, BookingID: bookingID, PaymentStatus: domain.PaymentSuccess}, nil
}

func (g *fakeGateway) Cancel(_ context.Context, req domain.CancellationRequest) (domain.Cancellation, error) {
	g.record("Cancel")
	g.lastCancelReq = req
	if g.cancelErr != nil {
		return domain.Cancellation{}, g.cancelErr
	}
	return domain.Cancellation{CancellationID: 3, BookingID: req.BookingID, PaymentID: req.PaymentID, RefundAmount: req.RefundAmount, Reason: req.Reason, RefundStatus: domain.RefundPending}, nil
}

func (g *fakeGateway) ProcessRefund(_ context.Context, id int64) (domain.Cancellation, error) {
	g.record("ProcessRefund")
	return domain.Cancellation{CancellationID: id, BookingID: 101, RefundStatus: domain.RefundRefunded, RefundAmount: 800}, nil
}

func (g *fakeGateway) AddBus(_ context.Context, b domain.Bus) (domain.Bus, error) {
	g.record("AddBus")
	b.BusID = 99
	return b, nil
}

func (g *fakeGateway) UpdateBus(_ context.Context, id int64, b domain.Bus) (domain.Bus, error) {
	g.record("UpdateBus")
	b.BusID = id
	return b, nil
}

func (g *fakeGateway) AddRoute(_ context.Context, r domain.Route) (domain.Route, error) {
	g.record("AddRoute")
	r.RouteID = 77
	return r, nil
}

func (g *fakeGateway) UpdateRoute(_ context.Context, id int64, r domain.Route) (domain.Route, error) {
	g.record("UpdateRoute")
	r.RouteID = id
	return r, nil
}

func (g *fakeGateway) MyCancellations(context.Context) ([]domain.Cancellation, error) {
	g.record("MyCancellations")
	return []domain.Cancellation{{CancellationID: 3, BookingID: 101, RefundStatus: domain.RefundPending}}, nil
}

func (g *fakeGateway) AllCancellations(context.Context) ([]domain.Cancellation, error) {
	g.record("AllCancellations")
	return []domain.Cancellation{
		{CancellationID: 3, BookingID: 101, RefundStatus: domain.RefundPending},
		{CancellationID: 4, BookingID: 102, RefundStatus: domain.RefundRefunded},
	}, nil
}

func (g *fakeGateway) AddSeat(_ context.Context, seat domain.Seat) (domain.Seat, error) {
	g.record("AddSeat")
	seat.SeatID = 55
	return seat, nil
}

func (g *fakeGateway) UpdateSeat(_ context.Context, id int64, seat domain.Seat) (domain.Seat, error) {
	g.record("UpdateSeat")
	seat.SeatID = id
	return seat, nil
}

func (g *fakeGateway) ListOperators(context.Context) ([]domain.Operator, error) {
	g.record("ListOperators")
	return []domain.Operator{{OperatorID: 1, Name: "KPN Travels"}}, nil
}

func (g *fakeGateway) AllPayments(context.Context) ([]domain.Payment, error) {
	g.record("AllPayments")
	return []domain.Payment{{PaymentID: 501, BookingID: 101, PaymentStatus: domain.PaymentSuccess}}, nil
}

func (g *fakeGateway) DeleteBus(context.Context, int64) error      { g.record("DeleteBus"); return nil }
func (g *fakeGateway) DeleteRoute(context.Context, int64) error    { g.record("DeleteRoute"); return nil }
func (g *fakeGateway) DeleteSeat(context.Context, int64) error     { g.record("DeleteSeat"); return nil }
func (g *fakeGateway) DeleteOperator(context.Context, int64) error { g.record("DeleteOperator"); return nil }
func (g *fakeGateway) DeleteBooking(context.Context, int64) error  { g.record("DeleteBooking"); return nil }

type fakeProjection struct {
	mu       sync.Mutex
	bookings map[int64]domain.Booking
}

func newFakeProjection() *fakeProjection {
	return &fakeProjection{bookings: map[int64]domain.Booking{}}
}

func (p *fakeProjection) Upsert(_ context.Context, bookings ...domain.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range bookings {
		p.bookings[b.BookingID] = b
	}
	return nil
}

func (p *fakeProjection) Get(_ context.Context, id int64) (domain.Booking, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.bookings[id]
	return b, ok, nil
}

func (p *fakeProjection) list(filter func(domain.Booking) bool) []domain.Booking {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.Booking
	for _, b := range p.bookings {
		if filter(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID < out[j].BookingID })
	return out
}

func (p *fakeProjection) ListByUser(_ context.Context, userID int64) ([]domain.Booking, error) {
	return p.list(func(b domain.Booking) bool { return b.UserID == userID }), nil
}

func (p *fakeProjection) ListAll(context.Context) ([]domain.Booking, error) {
	return p.list(func(domain.Booking) bool { return true }), nil
}

func (p *fakeProjection) SetStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.bookings[id]
	if !ok {
		return domain.ErrBookingNotProjected
	}
	b.Status = status
	p.bookings[id] = b
	return nil
}

func (p *fakeProjection) Delete(_ context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.bookings, id)
	return nil
}

type fakeJournal struct {
	mu      sync.Mutex
	entries map[string]domain.CheckoutEntry
	history []domain.CheckoutEntry
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{entries: map[string]domain.CheckoutEntry{}}
}

func (j *fakeJournal) Save(_ context.Context, e domain.CheckoutEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[e.ID] = e
	j.history = append(j.history, e)
	return nil
}

func (j *fakeJournal) FindByID(_ context.Context, id string) (domain.CheckoutEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, ok := j.entries[id]
	if !ok {
		return domain.CheckoutEntry{}, domain.ErrEntryNotFound
	}
	return e, nil
}

func (j *fakeJournal) FindUnresolved(context.Context) ([]domain.CheckoutEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []domain.CheckoutEntry
	for _, e := range j.entries {
		if e.Outcome == domain.OutcomeUnresolved {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []BookingEvent
}

func (r *recordedEvents) Handle(_ context.Context, e BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.EventName())
	}
	return out
}

type harness struct {
	gateway    *fakeGateway
	projection *fakeProjection
	journal    *fakeJournal
	events     *recordedEvents
	sessions   *session.MemoryStore
	clock      *clock.MockClock
	metrics    *metrics.Metrics
	workflow   *Workflow
	ids        int
}

// now é 1º de maio de 2025, antes da viagem de 1º de junho.
var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newHarness(t *testing.T, mode config.CheckoutMode) *harness {
	t.Helper()
	h := &harness{
		gateway:    newFakeGateway(),
		projection: newFakeProjection(),
		journal:    newFakeJournal(),
		events:     &recordedEvents{},
		clock:      clock.NewMockClock(testNow),
		metrics:    metrics.New(),
	}
	h.sessions = session.NewMemoryStore(time.Hour, h.clock)

	bus := pkgInfra.NewSimpleEventBus[BookingEvent, BookingEventData](pkgApp.NopLogger{})
	for _, name := range BookingEventNames {
		bus.RegisterHandler(name, h.events)
	}

	h.workflow = NewWorkflow(WorkflowDeps{
		Gateway:    h.gateway,
		Checkouts:  NewCheckoutStore(time.Hour),
		Journal:    h.journal,
		Projection: h.projection,
		Events:     bus,
		Sessions:   h.sessions,
		Clock:      h.clock,
		IDGenerator: func() string {
			h.ids++
			return fmt.Sprintf("id-%d", h.ids)
		},
		Mode:    mode,
		Metrics: h.metrics,
		Logger:  pkgApp.NopLogger{},
	})
	return h
}

func (h *harness) login(t *testing.T, role session.Role, userID int64) context.Context {
	t.Helper()
	s := &session.Session{ID: fmt.Sprintf("sess-%s-%d", role, userID), Token: "tok", Role: role, Username: "u", UserID: userID}
	if err := h.sessions.Save(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	return session.WithSession(context.Background(), s)
}

func validForm() PaymentForm {
	return PaymentForm{
		Email:      "asha@example.com",
		CardNumber: "4111 1111 1111 1111",
		CardHolder: "Asha Rao",
		Expiry:     "01/30",
		CVV:        "123",
	}
}

func travelDate() domain.Date {
	return domain.NewDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
}
