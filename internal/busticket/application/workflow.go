package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mateusmacedo/go-bff/internal/backend"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/internal/clock"
	"github.com/mateusmacedo/go-bff/internal/config"
	"github.com/mateusmacedo/go-bff/internal/metrics"
	"github.com/mateusmacedo/go-bff/internal/session"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-bff/pkg/domain"
)

const (
	FlashBookingSuccess = "booking_success"
	FlashCancelSuccess  = "cancel_success"
	FlashRefundSuccess  = "refund_success"
)

type WorkflowDeps struct {
	Gateway     Gateway
	Checkouts   *CheckoutStore
	Journal     domain.CheckoutJournal
	Projection  domain.BookingProjection
	Events      BookingEventBus
	Sessions    session.Store
	Clock       clock.Clock
	IDGenerator pkgDomain.IDGenerator[string]
	Mode        config.CheckoutMode
	Metrics     *metrics.Metrics
	Logger      pkgApp.AppLogger
}

// Workflow orquestra a compra (seleção de assentos, reserva, pagamento) e o
// cancelamento com reembolso contra o backend remoto.
type Workflow struct {
	gateway    Gateway
	checkouts  *CheckoutStore
	journal    domain.CheckoutJournal
	projection domain.BookingProjection
	events     BookingEventBus
	sessions   session.Store
	clock      clock.Clock
	idGen      pkgDomain.IDGenerator[string]
	mode       config.CheckoutMode
	metrics    *metrics.Metrics
	logger     pkgApp.AppLogger
	results    *cancellationResults
}

func NewWorkflow(deps WorkflowDeps) *Workflow {
	w := &Workflow{
		gateway:    deps.Gateway,
		checkouts:  deps.Checkouts,
		journal:    deps.Journal,
		projection: deps.Projection,
		events:     deps.Events,
		sessions:   deps.Sessions,
		clock:      deps.Clock,
		idGen:      deps.IDGenerator,
		mode:       deps.Mode,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		results:    newCancellationResults(),
	}
	if w.clock == nil {
		w.clock = clock.RealClock{}
	}
	if w.logger == nil {
		w.logger = pkgApp.NopLogger{}
	}
	if w.mode == "" {
		w.mode = config.CheckoutCombined
	}
	if w.checkouts == nil {
		w.checkouts = NewCheckoutStore(time.Hour)
	}
	return w
}

// Mode informa a estratégia de envio de reserva e pagamento em uso.
func (w *Workflow) Mode() config.CheckoutMode {
	return w.mode
}

func (w *Workflow) requireSession(ctx context.Context, c session.Capability) (*session.Session, error) {
	s, ok := session.FromContext(ctx)
	if !ok || !s.Authenticated(w.clock.Now()) {
		return nil, session.ErrUnauthenticated
	}
	if err := s.Require(c); err != nil {
		return nil, err
	}
	return s, nil
}

func (w *Workflow) checkoutFor(ctx context.Context, id string) (*Checkout, *session.Session, error) {
	s, err := w.requireSession(ctx, session.CapBook)
	if err != nil {
		return nil, nil, err
	}
	c, ok := w.checkouts.Get(id)
	if !ok || c.sessionID != s.ID {
		return nil, nil, fmt.Errorf("%w: %s", ErrCheckoutNotFound, id)
	}
	return c, s, nil
}

// OpenCheckout cria uma compra para a rota e data informadas, carregando a
// foto de disponibilidade de assentos usada durante toda a seleção.
func (w *Workflow) OpenCheckout(ctx context.Context, data OpenCheckoutData) (CheckoutSnapshot, error) {
	s, err := w.requireSession(ctx, session.CapBook)
	if err != nil {
		return CheckoutSnapshot{}, err
	}

	now := w.clock.Now()
	var verr ValidationErrors
	if strings.TrimSpace(data.CheckoutID) == "" {
		verr.Add("checkoutId", "checkout id is required")
	}
	if data.RouteID <= 0 {
		verr.Add("routeId", "select a route")
	}
	if data.TravelDate.IsZero() {
		verr.Add("travelDate", "travel date is required")
	} else if data.TravelDate.Before(domain.NewDate(now).Time) {
		verr.Add("travelDate", "travel date must not be in the past")
	}
	if err := verr.OrNil(); err != nil {
		return CheckoutSnapshot{}, err
	}

	route, err := w.gateway.GetRoute(ctx, data.RouteID)
	if err != nil {
		pkgApp.LogError(ctx, w.logger, "Erro ao carregar rota", err, map[string]interface{}{"route_id": data.RouteID})
		return CheckoutSnapshot{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if route.BusID() == 0 {
		return CheckoutSnapshot{}, fmt.Errorf("%w: route %d has no bus", domain.ErrInvalidEntity, route.RouteID)
	}

	seats, err := w.gateway.GetSeats(ctx, route.BusID(), data.TravelDate)
	if err != nil {
		pkgApp.LogError(ctx, w.logger, "Erro ao carregar assentos", err, map[string]interface{}{
			"bus_id": route.BusID(),
			"date":   data.TravelDate.String(),
		})
		return CheckoutSnapshot{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	c := newCheckout(data.CheckoutID, s.ID, s.UserID, w.idGen(), route, data.TravelDate,
		BuildSeatMap(route.BusID(), data.TravelDate, seats), now)
	w.checkouts.Sweep(now)
	w.checkouts.Put(c)

	pkgApp.LogInfo(ctx, w.logger, "Compra iniciada", map[string]interface{}{
		"checkout_id": c.id,
		"route_id":    route.RouteID,
		"travel_date": data.TravelDate.String(),
	})
	return c.Snapshot(), nil
}

func (w *Workflow) Snapshot(ctx context.Context, id string) (CheckoutSnapshot, error) {
	c, _, err := w.checkoutFor(ctx, id)
	if err != nil {
		return CheckoutSnapshot{}, err
	}
	return c.Snapshot(), nil
}

// Discard descarta a compra da memória; reservas já enviadas não mudam.
func (w *Workflow) Discard(ctx context.Context, id string) error {
	if _, _, err := w.checkoutFor(ctx, id); err != nil {
		return err
	}
	w.checkouts.Discard(id)
	return nil
}

func (w *Workflow) SelectSeat(ctx context.Context, id, seatNumber string) (CheckoutSnapshot, error) {
	return w.toggleSeat(ctx, ToggleSeatData{CheckoutID: id, SeatNumber: seatNumber, Selected: true})
}

func (w *Workflow) DeselectSeat(ctx context.Context, id, seatNumber string) (CheckoutSnapshot, error) {
	return w.toggleSeat(ctx, ToggleSeatData{CheckoutID: id, SeatNumber: seatNumber, Selected: false})
}

func (w *Workflow) toggleSeat(ctx context.Context, data ToggleSeatData) (CheckoutSnapshot, error) {
	c, _, err := w.checkoutFor(ctx, data.CheckoutID)
	if err != nil {
		return CheckoutSnapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if data.Selected {
		err = c.selectSeat(data.SeatNumber, w.clock.Now())
	} else {
		err = c.deselectSeat(data.SeatNumber, w.clock.Now())
	}
	return c.snapshot(), err
}

// SubmitBooking envia a reserva dos assentos selecionados.
func (w *Workflow) SubmitBooking(ctx context.Context, id string) (domain.Booking, error) {
	c, _, err := w.checkoutFor(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := checkSeatsSelected(c); err != nil {
		return domain.Booking{}, err
	}
	return w.submitBooking(ctx, c)
}

// SubmitPayment valida o formulário e envia o pagamento de uma reserva já
// criada. Se o backend recusar o pagamento, a reserva é anulada.
func (w *Workflow) SubmitPayment(ctx context.Context, id string, form PaymentForm) (domain.Payment, error) {
	c, s, err := w.checkoutFor(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateBookingSubmitted {
		return domain.Payment{}, fmt.Errorf("%w: payment requires a submitted booking (state %s)", ErrInvalidTransition, c.state)
	}
	if err := form.Validate(w.clock.Now()); err != nil {
		return domain.Payment{}, err
	}
	if err := w.payAndSettle(ctx, c, s); err != nil {
		return domain.Payment{}, err
	}
	return *c.payment, nil
}

// Checkout conclui a compra. No modo combined reserva e pagamento seguem em
// uma única chamada; no modo saga seguem em duas, com compensação.
func (w *Workflow) Checkout(ctx context.Context, data CheckoutBookingData) (CheckoutSnapshot, error) {
	c, s, err := w.checkoutFor(ctx, data.CheckoutID)
	if err != nil {
		return CheckoutSnapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateIdle:
		return c.snapshot(), checkSeatsSelected(c)
	case StateSeatsSelected, StateBookingSubmitted:
	default:
		return c.snapshot(), fmt.Errorf("%w: checkout already %s", ErrInvalidTransition, c.state)
	}

	if err := data.Form.Validate(w.clock.Now()); err != nil {
		return c.snapshot(), err
	}

	if w.mode == config.CheckoutCombined && c.state == StateSeatsSelected {
		err = w.checkoutCombined(ctx, c, s)
		return c.snapshot(), err
	}

	if c.state == StateSeatsSelected {
		if _, err := w.submitBooking(ctx, c); err != nil {
			return c.snapshot(), err
		}
	}
	err = w.payAndSettle(ctx, c, s)
	return c.snapshot(), err
}

func checkSeatsSelected(c *Checkout) error {
	if len(c.selected) == 0 {
		return ValidationErrors{{Field: "seats", Message: ErrNoSeatsSelected.Error()}}
	}
	if c.state != StateSeatsSelected {
		return fmt.Errorf("%w: booking already submitted (state %s)", ErrInvalidTransition, c.state)
	}
	return nil
}

func (w *Workflow) bookingRequest(c *Checkout, status domain.BookingStatus) domain.BookingRequest {
	seats := append([]string(nil), c.selected...)
	return domain.BookingRequest{
		UserID:         c.userID,
		RouteID:        c.route.RouteID,
		BookingDate:    domain.NewTimestamp(w.clock.Now()),
		TotalAmount:    ComputeFare(seats, c.route),
		Status:         status,
		SeatNumbers:    seats,
		PassengerCount: len(seats),
		TravelDate:     c.travelDate,
	}
}

func paymentRequest(bookingID int64, amount float64) domain.PaymentRequest {
	return domain.PaymentRequest{
		BookingID:     bookingID,
		AmountPaid:    amount,
		PaymentMethod: PaymentMethodCard,
		PaymentStatus: domain.PaymentSuccess,
	}
}

// submitBooking deve ser chamado com o mutex da compra travado.
func (w *Workflow) submitBooking(ctx context.Context, c *Checkout) (domain.Booking, error) {
	req := w.bookingRequest(c, domain.BookingConfirmed)
	w.record(ctx, c, domain.StepSubmitBooking, domain.OutcomePending, nil)

	booking, err := w.gateway.AddBooking(backend.WithIdempotencyKey(ctx, c.idempotencyKey), req)
	w.metrics.RecordStep(string(domain.StepSubmitBooking), err)
	if err != nil {
		err = stepError(domain.StepSubmitBooking, err)
		c.fail(domain.StepSubmitBooking, err, w.clock.Now())
		w.record(ctx, c, domain.StepSubmitBooking, domain.OutcomePending, err)
		pkgApp.LogError(ctx, w.logger, "Erro ao enviar reserva", err, map[string]interface{}{"checkout_id": c.id})
		return domain.Booking{}, err
	}

	if booking.TotalAmount == 0 {
		booking.TotalAmount = req.TotalAmount
	}
	if len(booking.SeatNumbers) == 0 {
		booking.SeatNumbers = req.SeatNumbers
	}
	c.booking = &booking
	c.clearFailure()
	if err := c.move(StateBookingSubmitted, w.clock.Now()); err != nil {
		return domain.Booking{}, err
	}
	w.record(ctx, c, domain.StepSubmitBooking, domain.OutcomePending, nil)

	pkgApp.LogInfo(ctx, w.logger, "Reserva enviada", map[string]interface{}{
		"checkout_id": c.id,
		"booking_id":  booking.BookingID,
	})
	return booking, nil
}

// payAndSettle envia o pagamento; em caso de recusa anula a reserva.
// Deve ser chamado com o mutex da compra travado.
func (w *Workflow) payAndSettle(ctx context.Context, c *Checkout, s *session.Session) error {
	req := paymentRequest(c.booking.BookingID, c.booking.TotalAmount)
	payment, err := w.gateway.ProcessPayment(backend.WithIdempotencyKey(ctx, c.idempotencyKey), req)
	if err == nil && payment.PaymentStatus != domain.PaymentSuccess {
		err = fmt.Errorf("%w: status %s", ErrPaymentDeclined, payment.PaymentStatus)
	}
	w.metrics.RecordStep(string(domain.StepSubmitPayment), err)
	if err != nil {
		err = stepError(domain.StepSubmitPayment, err)
		c.fail(domain.StepSubmitPayment, err, w.clock.Now())
		pkgApp.LogError(ctx, w.logger, "Erro ao enviar pagamento", err, map[string]interface{}{
			"checkout_id": c.id,
			"booking_id":  c.booking.BookingID,
		})
		return w.compensate(ctx, c, err)
	}

	if payment.BookingID == 0 {
		payment.BookingID = c.booking.BookingID
	}
	c.payment = &payment
	if err := c.move(StatePaymentSubmitted, w.clock.Now()); err != nil {
		return err
	}
	return w.confirm(ctx, c, s)
}

// compensate anula a reserva cujo pagamento falhou. Se a anulação também
// falhar, a entrada do diário fica Unresolved para intervenção manual.
func (w *Workflow) compensate(ctx context.Context, c *Checkout, cause error) error {
	booking := *c.booking
	req := domain.BookingRequest{
		UserID:         booking.UserID,
		RouteID:        booking.RouteID,
		BookingDate:    booking.BookingDate,
		TotalAmount:    booking.TotalAmount,
		Status:         domain.BookingCancelled,
		SeatNumbers:    booking.SeatNumbers,
		PassengerCount: booking.PassengerCount,
		TravelDate:     booking.TravelDate,
	}
	if req.UserID == 0 {
		req.UserID = c.userID
	}
	if req.RouteID == 0 {
		req.RouteID = c.route.RouteID
	}
	if req.TravelDate.IsZero() {
		req.TravelDate = c.travelDate
	}

	_, err := w.gateway.UpdateBooking(ctx, booking.BookingID, req)
	w.metrics.RecordStep(string(domain.StepCompensate), err)
	if err != nil {
		joined := errors.Join(cause, stepError(domain.StepCompensate, err))
		c.fail(domain.StepCompensate, joined, w.clock.Now())
		w.record(ctx, c, domain.StepCompensate, domain.OutcomeUnresolved, joined)
		pkgApp.LogError(ctx, w.logger, "Compensação falhou; reserva requer intervenção manual", err, map[string]interface{}{
			"checkout_id": c.id,
			"booking_id":  booking.BookingID,
		})
		return joined
	}

	c.booking.Status = domain.BookingCancelled
	if err := c.move(StateVoided, w.clock.Now()); err != nil {
		return errors.Join(cause, err)
	}
	w.record(ctx, c, domain.StepCompensate, domain.OutcomeCompensated, cause)
	w.project(ctx, *c.booking)
	w.publish(ctx, NewCheckoutCompensatedEvent(BookingEventData{
		CheckoutID:  c.id,
		BookingID:   booking.BookingID,
		UserID:      c.userID,
		Status:      domain.BookingCancelled,
		TotalAmount: booking.TotalAmount,
		Reason:      cause.Error(),
		Booking:     c.booking,
	}))
	pkgApp.LogInfo(ctx, w.logger, "Reserva anulada após falha no pagamento", map[string]interface{}{
		"checkout_id": c.id,
		"booking_id":  booking.BookingID,
	})
	return cause
}

// checkoutCombined deve ser chamado com o mutex da compra travado.
func (w *Workflow) checkoutCombined(ctx context.Context, c *Checkout, s *session.Session) error {
	bookingReq := w.bookingRequest(c, domain.BookingConfirmed)
	req := domain.CheckoutRequest{
		Booking: bookingReq,
		Payment: paymentRequest(0, bookingReq.TotalAmount),
	}
	w.record(ctx, c, domain.StepCheckout, domain.OutcomePending, nil)

	res, err := w.gateway.ProcessCheckout(backend.WithIdempotencyKey(ctx, c.idempotencyKey), req)
	if err == nil && res.Payment.PaymentStatus != domain.PaymentSuccess {
		err = fmt.Errorf("%w: status %s", ErrPaymentDeclined, res.Payment.PaymentStatus)
	}
	if err != nil {
		w.metrics.RecordStep(string(domain.StepCheckout), err)
		err = stepError(domain.StepCheckout, err)
		c.fail(domain.StepCheckout, err, w.clock.Now())
		w.record(ctx, c, domain.StepCheckout, domain.OutcomePending, err)
		pkgApp.LogError(ctx, w.logger, "Erro ao concluir compra", err, map[string]interface{}{"checkout_id": c.id})
		return err
	}

	booking, payment := res.Booking, res.Payment
	if booking.TotalAmount == 0 {
		booking.TotalAmount = bookingReq.TotalAmount
	}
	if len(booking.SeatNumbers) == 0 {
		booking.SeatNumbers = bookingReq.SeatNumbers
	}
	c.booking = &booking
	c.payment = &payment
	return w.confirm(ctx, c, s)
}

// confirm registra o sucesso da compra: diário, projeção, evento e
// mensagem flash. Falhas nesses efeitos só são registradas em log.
func (w *Workflow) confirm(ctx context.Context, c *Checkout, s *session.Session) error {
	if err := c.move(StateConfirmed, w.clock.Now()); err != nil {
		return err
	}
	c.clearFailure()
	c.booking.Status = domain.BookingConfirmed
	w.metrics.RecordStep(string(domain.StepCheckout), nil)

	w.record(ctx, c, domain.StepCheckout, domain.OutcomeCompleted, nil)
	w.project(ctx, *c.booking)
	w.publish(ctx, NewBookingConfirmedEvent(BookingEventData{
		CheckoutID:  c.id,
		BookingID:   c.booking.BookingID,
		UserID:      c.userID,
		Status:      domain.BookingConfirmed,
		TotalAmount: c.booking.TotalAmount,
		PaymentID:   c.payment.PaymentID,
		Booking:     c.booking,
	}))
	w.flash(ctx, s, FlashBookingSuccess, fmt.Sprintf("Booking #%d confirmed. Payment #%d received.", c.booking.BookingID, c.payment.PaymentID))

	pkgApp.LogInfo(ctx, w.logger, "Compra confirmada", map[string]interface{}{
		"checkout_id": c.id,
		"booking_id":  c.booking.BookingID,
		"payment_id":  c.payment.PaymentID,
		"total":       c.booking.TotalAmount,
	})
	return nil
}

// findBooking consulta primeiro a projeção local e só então o backend.
func (w *Workflow) findBooking(ctx context.Context, bookingID int64) (domain.Booking, error) {
	if w.projection != nil {
		b, ok, err := w.projection.Get(ctx, bookingID)
		if err != nil {
			pkgApp.LogError(ctx, w.logger, "Erro ao consultar projeção", err, map[string]interface{}{"booking_id": bookingID})
		}
		if ok {
			return b, nil
		}
	}
	return w.fetchBooking(ctx, bookingID)
}

func (w *Workflow) fetchBooking(ctx context.Context, bookingID int64) (domain.Booking, error) {
	b, err := w.gateway.GetBooking(ctx, bookingID)
	if err != nil {
		if backend.StatusOf(err) == 404 {
			return domain.Booking{}, fmt.Errorf("%w: %d", ErrBookingNotFound, bookingID)
		}
		return domain.Booking{}, err
	}
	return b, nil
}

// bookingFor devolve a reserva somente se a sessão puder vê-la. Sem user id
// na sessão não há como comparar donos: a consulta vai direto ao backend com
// o token do chamador e a projeção compartilhada não é usada.
func (w *Workflow) bookingFor(ctx context.Context, s *session.Session, bookingID int64) (domain.Booking, error) {
	if !s.Role.Can(session.CapViewAllBookings) && s.UserID == 0 {
		return w.fetchBooking(ctx, bookingID)
	}

	b, err := w.findBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !s.Role.Can(session.CapViewAllBookings) && b.UserID != s.UserID {
		return domain.Booking{}, fmt.Errorf("%w: booking %d belongs to another user", session.ErrForbidden, bookingID)
	}
	return b, nil
}

// Cancel cancela uma reserva confirmada com reembolso de 80% do total.
// Status e motivo são verificados antes de qualquer chamada de escrita.
func (w *Workflow) Cancel(ctx context.Context, data CancelBookingData) (domain.Cancellation, error) {
	s, err := w.requireSession(ctx, session.CapBook)
	if err != nil {
		return domain.Cancellation{}, err
	}
	reason := strings.TrimSpace(data.Reason)
	if reason == "" {
		return domain.Cancellation{}, ErrReasonRequired
	}

	booking, err := w.bookingFor(ctx, s, data.BookingID)
	if err != nil {
		return domain.Cancellation{}, err
	}
	if !booking.Status.Cancellable() {
		return domain.Cancellation{}, fmt.Errorf("%w: booking %d is %s", ErrNotCancellable, booking.BookingID, booking.Status)
	}

	live, _ := w.checkouts.FindByBooking(booking.BookingID)
	paymentID, err := w.paymentIDFor(ctx, live, booking.BookingID)
	if err != nil {
		return domain.Cancellation{}, stepError(domain.StepCancel, err)
	}

	refund := domain.RefundAmount(booking.TotalAmount)
	cancellation, err := w.gateway.Cancel(ctx, domain.CancellationRequest{
		BookingID:    booking.BookingID,
		PaymentID:    paymentID,
		RefundAmount: refund,
		Reason:       reason,
	})
	w.metrics.RecordStep(string(domain.StepCancel), err)
	if err != nil {
		pkgApp.LogError(ctx, w.logger, "Erro ao cancelar reserva", err, map[string]interface{}{"booking_id": booking.BookingID})
		return domain.Cancellation{}, stepError(domain.StepCancel, err)
	}
	if cancellation.RefundAmount == 0 {
		cancellation.RefundAmount = refund
	}
	w.metrics.RecordRefund(cancellation.RefundAmount)

	booking.Status = domain.BookingCancelled
	w.project(ctx, booking)

	if live != nil {
		live.mu.Lock()
		c := cancellation
		live.cancellation = &c
		live.booking.Status = domain.BookingCancelled
		if err := live.move(StateCancelled, w.clock.Now()); err == nil && cancellation.RefundStatus != domain.RefundRefunded {
			_ = live.move(StateRefundRequested, w.clock.Now())
		}
		live.mu.Unlock()
	}

	w.publish(ctx, NewBookingCancelledEvent(BookingEventData{
		BookingID:      booking.BookingID,
		UserID:         booking.UserID,
		Status:         domain.BookingCancelled,
		TotalAmount:    booking.TotalAmount,
		PaymentID:      paymentID,
		CancellationID: cancellation.CancellationID,
		RefundAmount:   cancellation.RefundAmount,
		Reason:         reason,
	}))
	w.flash(ctx, s, FlashCancelSuccess, fmt.Sprintf("Booking #%d cancelled. Refund of %.2f requested.", booking.BookingID, cancellation.RefundAmount))

	pkgApp.LogInfo(ctx, w.logger, "Reserva cancelada", map[string]interface{}{
		"booking_id":      booking.BookingID,
		"cancellation_id": cancellation.CancellationID,
		"refund":          cancellation.RefundAmount,
	})
	w.results.put(byBookingKey(s.ID, booking.BookingID), cancellation)
	return cancellation, nil
}

func (w *Workflow) paymentIDFor(ctx context.Context, live *Checkout, bookingID int64) (int64, error) {
	if live != nil {
		live.mu.Lock()
		p := live.payment
		live.mu.Unlock()
		if p != nil && p.PaymentID != 0 {
			return p.PaymentID, nil
		}
	}
	payment, err := w.gateway.PaymentForBooking(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	return payment.PaymentID, nil
}

// ProcessRefund conclui o reembolso de um cancelamento (somente operador).
func (w *Workflow) ProcessRefund(ctx context.Context, data ProcessRefundData) (domain.Cancellation, error) {
	s, err := w.requireSession(ctx, session.CapProcessRefund)
	if err != nil {
		return domain.Cancellation{}, err
	}

	cancellation, err := w.gateway.ProcessRefund(ctx, data.CancellationID)
	w.metrics.RecordStep(string(domain.StepRefund), err)
	if err != nil {
		pkgApp.LogError(ctx, w.logger, "Erro ao processar reembolso", err, map[string]interface{}{"cancellation_id": data.CancellationID})
		return domain.Cancellation{}, stepError(domain.StepRefund, err)
	}

	bookingID := cancellation.BookingID
	if bookingID == 0 {
		bookingID = data.BookingID
	}
	if bookingID != 0 {
		if w.projection != nil {
			if err := w.projection.SetStatus(ctx, bookingID, domain.BookingRefunded); err != nil && !errors.Is(err, domain.ErrBookingNotProjected) {
				pkgApp.LogError(ctx, w.logger, "Erro ao atualizar projeção", err, map[string]interface{}{"booking_id": bookingID})
			}
		}
		if live, ok := w.checkouts.FindByBooking(bookingID); ok {
			live.mu.Lock()
			if err := live.move(StateRefunded, w.clock.Now()); err == nil {
				live.booking.Status = domain.BookingRefunded
				c := cancellation
				live.cancellation = &c
			}
			live.mu.Unlock()
		}
	}

	w.publish(ctx, NewBookingRefundedEvent(BookingEventData{
		BookingID:      bookingID,
		Status:         domain.BookingRefunded,
		CancellationID: cancellation.CancellationID,
		RefundAmount:   cancellation.RefundAmount,
	}))
	w.flash(ctx, s, FlashRefundSuccess, fmt.Sprintf("Refund for cancellation #%d processed.", cancellation.CancellationID))
	w.results.put(byCancellationKey(s.ID, data.CancellationID), cancellation)
	return cancellation, nil
}

// ListBookings consulta o backend (as próprias reservas, ou todas para quem
// pode vê-las) e atualiza a projeção local.
func (w *Workflow) ListBookings(ctx context.Context, data ListBookingsData) ([]domain.Booking, error) {
	s, err := w.requireSession(ctx, session.CapViewOwnBookings)
	if err != nil {
		return nil, err
	}
	all := s.Role.Can(session.CapViewAllBookings)

	// sem user id a projeção não sabe filtrar as reservas do usuário
	if data.Cached && w.projection != nil && (all || s.UserID != 0) {
		if all {
			return w.projection.ListAll(ctx)
		}
		return w.projection.ListByUser(ctx, s.UserID)
	}

	var bookings []domain.Booking
	if all {
		bookings, err = w.gateway.AllBookings(ctx)
	} else {
		bookings, err = w.gateway.MyBookings(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if w.projection != nil {
		if err := w.projection.Upsert(ctx, bookings...); err != nil {
			pkgApp.LogError(ctx, w.logger, "Erro ao atualizar projeção", err, nil)
		}
	}
	return bookings, nil
}

// ListCancellations segue a mesma regra de ListBookings: operador e
// administrador veem todos os cancelamentos, o usuário só os próprios.
func (w *Workflow) ListCancellations(ctx context.Context) ([]domain.Cancellation, error) {
	s, err := w.requireSession(ctx, session.CapViewOwnBookings)
	if err != nil {
		return nil, err
	}
	var out []domain.Cancellation
	if s.Role.Can(session.CapViewAllBookings) {
		out, err = w.gateway.AllCancellations(ctx)
	} else {
		out, err = w.gateway.MyCancellations(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return out, nil
}

// Bus devolve um ônibus do catálogo.
func (w *Workflow) Bus(ctx context.Context, id int64) (domain.Bus, error) {
	if _, err := w.requireSession(ctx, session.CapViewOwnBookings); err != nil {
		return domain.Bus{}, err
	}
	return w.gateway.GetBus(ctx, id)
}

// Ticket reúne reserva, pagamento e rota para a emissão do bilhete.
type Ticket struct {
	Booking domain.Booking
	Payment *domain.Payment
	Route   *domain.Route
}

func (w *Workflow) Ticket(ctx context.Context, bookingID int64) (Ticket, error) {
	s, err := w.requireSession(ctx, session.CapViewOwnBookings)
	if err != nil {
		return Ticket{}, err
	}
	booking, err := w.bookingFor(ctx, s, bookingID)
	if err != nil {
		return Ticket{}, err
	}

	t := Ticket{Booking: booking, Route: booking.Route}
	if t.Route == nil && booking.RouteID != 0 {
		if r, err := w.gateway.GetRoute(ctx, booking.RouteID); err == nil {
			t.Route = &r
		}
	}
	if p, err := w.gateway.PaymentForBooking(ctx, bookingID); err == nil {
		t.Payment = &p
	} else {
		pkgApp.LogDebug(ctx, w.logger, "Pagamento não encontrado para bilhete", map[string]interface{}{"booking_id": bookingID})
	}
	return t, nil
}

// UnresolvedCheckouts lista compras com falha parcial para intervenção manual.
func (w *Workflow) UnresolvedCheckouts(ctx context.Context) ([]domain.CheckoutEntry, error) {
	if _, err := w.requireSession(ctx, session.CapViewAllBookings); err != nil {
		return nil, err
	}
	if w.journal == nil {
		return []domain.CheckoutEntry{}, nil
	}
	return w.journal.FindUnresolved(ctx)
}

func (w *Workflow) record(ctx context.Context, c *Checkout, step domain.CheckoutStep, outcome domain.CheckoutOutcome, stepErr error) {
	if w.journal == nil {
		return
	}
	entry := domain.CheckoutEntry{
		ID:        c.id,
		UserID:    c.userID,
		Step:      step,
		Outcome:   outcome,
		UpdatedAt: w.clock.Now(),
	}
	if c.booking != nil {
		entry.BookingID = c.booking.BookingID
	}
	if c.payment != nil {
		entry.PaymentID = c.payment.PaymentID
	}
	if stepErr != nil {
		entry.Error = stepErr.Error()
	}
	if err := w.journal.Save(ctx, entry); err != nil {
		pkgApp.LogError(ctx, w.logger, "Erro ao gravar diário da compra", err, map[string]interface{}{
			"checkout_id": c.id,
			"step":        step,
		})
	}
}

func (w *Workflow) project(ctx context.Context, b domain.Booking) {
	if w.projection == nil {
		return
	}
	if err := w.projection.Upsert(ctx, b); err != nil {
		pkgApp.LogError(ctx, w.logger, "Erro ao atualizar projeção", err, map[string]interface{}{"booking_id": b.BookingID})
	}
}

func (w *Workflow) publish(ctx context.Context, event BookingEvent) {
	if w.events == nil {
		return
	}
	if err := w.events.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, w.logger, "Erro ao publicar evento", err, map[string]interface{}{"event_name": event.EventName()})
	}
}

func (w *Workflow) flash(ctx context.Context, s *session.Session, key, msg string) {
	if w.sessions == nil || s == nil {
		return
	}
	if err := w.sessions.PushFlash(ctx, s.ID, key, msg); err != nil {
		pkgApp.LogError(ctx, w.logger, "Erro ao gravar mensagem flash", err, map[string]interface{}{"key": key})
	}
}
