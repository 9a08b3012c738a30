package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-bff/internal/backend"
	"github.com/mateusmacedo/go-bff/internal/busticket/application"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/internal/session"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-bff/pkg/domain"
)

const (
	SessionCookie   = "bff_session"
	SessionIDHeader = "X-Session-ID"

	defaultRequestTimeout = 30 * time.Second
)

// CommandBuses agrupa um barramento por tipo de comando.
type CommandBuses struct {
	OpenCheckout    pkgApp.CommandBus[pkgDomain.Command[application.OpenCheckoutData], application.OpenCheckoutData]
	ToggleSeat      pkgApp.CommandBus[pkgDomain.Command[application.ToggleSeatData], application.ToggleSeatData]
	CheckoutBooking pkgApp.CommandBus[pkgDomain.Command[application.CheckoutBookingData], application.CheckoutBookingData]
	CancelBooking   pkgApp.CommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData]
	ProcessRefund   pkgApp.CommandBus[pkgDomain.Command[application.ProcessRefundData], application.ProcessRefundData]
}

type QueryBuses struct {
	FindBuses    pkgApp.QueryBus[pkgDomain.Query[application.FindBusesData], application.FindBusesData, []application.BusRoutes]
	FindRoutes   pkgApp.QueryBus[pkgDomain.Query[application.RouteFilter], application.RouteFilter, []domain.Route]
	FindSeats    pkgApp.QueryBus[pkgDomain.Query[application.FindSeatsData], application.FindSeatsData, *application.SeatMap]
	ListBookings pkgApp.QueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []domain.Booking]
}

type HTTPDeps struct {
	Sessions     *application.Sessions
	Workflow     *application.Workflow
	Admin        *application.Admin
	Commands     CommandBuses
	Queries      QueryBuses
	IDGenerator  pkgDomain.IDGenerator[string]
	Logger       pkgApp.AppLogger
	Timeout      time.Duration
	SecureCookie bool
}

// BusTicketHTTPHandler expõe a API JSON consumida pelo frontend.
type BusTicketHTTPHandler struct {
	sessions     *application.Sessions
	workflow     *application.Workflow
	admin        *application.Admin
	commands     CommandBuses
	queries      QueryBuses
	idGenerator  pkgDomain.IDGenerator[string]
	logger       pkgApp.AppLogger
	timeout      time.Duration
	secureCookie bool
}

func NewBusTicketHTTPHandler(deps HTTPDeps) *BusTicketHTTPHandler {
	h := &BusTicketHTTPHandler{
		sessions:     deps.Sessions,
		workflow:     deps.Workflow,
		admin:        deps.Admin,
		commands:     deps.Commands,
		queries:      deps.Queries,
		idGenerator:  deps.IDGenerator,
		logger:       deps.Logger,
		timeout:      deps.Timeout,
		secureCookie: deps.SecureCookie,
	}
	if h.timeout <= 0 {
		h.timeout = defaultRequestTimeout
	}
	if h.logger == nil {
		h.logger = pkgApp.NopLogger{}
	}
	return h
}

func (h *BusTicketHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/api/session/login", h.HandleLogin)

	router.Group(func(r chi.Router) {
		r.Use(h.RequireSession)

		r.Post("/api/session/logout", h.HandleLogout)
		r.Get("/api/session", h.HandleCurrentSession)

		r.Get("/api/catalog/buses", h.HandleFindBuses)
		r.Get("/api/catalog/routes", h.HandleFindRoutes)
		r.Get("/api/catalog/buses/{busId}", h.HandleGetBus)
		r.Get("/api/catalog/buses/{busId}/seats", h.HandleFindSeats)

		r.Post("/api/checkouts", h.HandleOpenCheckout)
		r.Get("/api/checkouts/{checkoutId}", h.HandleGetCheckout)
		r.Delete("/api/checkouts/{checkoutId}", h.HandleDiscardCheckout)
		r.Post("/api/checkouts/{checkoutId}/seats/{seatNumber}", h.HandleToggleSeat(true))
		r.Delete("/api/checkouts/{checkoutId}/seats/{seatNumber}", h.HandleToggleSeat(false))
		r.Post("/api/checkouts/{checkoutId}/pay", h.HandlePay)

		r.Get("/api/bookings", h.HandleListBookings)
		r.Get("/api/bookings/{bookingId}/ticket.pdf", h.HandleTicket)
		r.Post("/api/bookings/{bookingId}/cancel", h.HandleCancelBooking)
		r.Get("/api/cancellations", h.HandleListCancellations)
		r.Post("/api/cancellations/{cancellationId}/refund", h.HandleProcessRefund)

		r.Get("/api/admin/checkouts/unresolved", h.HandleUnresolvedCheckouts)
		r.Post("/api/admin/buses", h.HandleSaveBus)
		r.Put("/api/admin/buses/{id}", h.HandleSaveBus)
		r.Post("/api/admin/routes", h.HandleSaveRoute)
		r.Put("/api/admin/routes/{id}", h.HandleSaveRoute)
		r.Post("/api/admin/seats", h.HandleSaveSeat)
		r.Put("/api/admin/seats/{id}", h.HandleSaveSeat)
		r.Get("/api/admin/operators", h.HandleListOperators)
		r.Get("/api/admin/payments", h.HandleListPayments)
		r.Delete("/api/admin/{kind}/{id}", h.HandleAdminDelete)
	})
}

func sessionIDFrom(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(r.Header.Get(SessionIDHeader))
}

// RequireSession carrega a sessão do cookie (ou do cabeçalho X-Session-ID)
// e a anexa ao contexto; sem sessão válida a resposta é 401.
func (h *BusTicketHTTPHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.sessions.Resolve(r.Context(), sessionIDFrom(r))
		if err != nil {
			h.writeError(r.Context(), w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *BusTicketHTTPHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, err := h.sessions.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if !s.ExpiresAt.IsZero() {
		cookie.Expires = s.ExpiresAt
	}
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, s)
}

func (h *BusTicketHTTPHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	if err := h.sessions.Logout(r.Context(), s.ID); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

func (h *BusTicketHTTPHandler) HandleCurrentSession(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	flashes, err := h.sessions.Flashes(r.Context(), s.ID)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": s, "flashes": flashes})
}

func (h *BusTicketHTTPHandler) HandleFindBuses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buses, err := h.queries.FindBuses.Dispatch(ctx, application.NewFindBusesQuery())
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, buses)
}

func (h *BusTicketHTTPHandler) HandleFindRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := application.RouteFilter{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
	}
	if raw := q.Get("date"); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			h.writeError(r.Context(), w, application.ValidationErrors{{Field: "date", Message: "date must be YYYY-MM-DD"}})
			return
		}
		filter.Date = &date
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	routes, err := h.queries.FindRoutes.Dispatch(ctx, application.NewFindRoutesQuery(filter))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (h *BusTicketHTTPHandler) HandleFindSeats(w http.ResponseWriter, r *http.Request) {
	var verr application.ValidationErrors
	busID, ok := pathID(r, "busId")
	if !ok {
		verr.Add("busId", "bus id must be a positive number")
	}
	date, err := domain.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		verr.Add("date", "date must be YYYY-MM-DD")
	}
	if err := verr.OrNil(); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	seatMap, err := h.queries.FindSeats.Dispatch(ctx, application.NewFindSeatsQuery(application.FindSeatsData{BusID: busID, Date: date}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, seatMap)
}

type openCheckoutRequest struct {
	RouteID    int64       `json:"routeId"`
	TravelDate domain.Date `json:"travelDate"`
}

func (h *BusTicketHTTPHandler) HandleOpenCheckout(w http.ResponseWriter, r *http.Request) {
	var req openCheckoutRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := h.idGenerator()
	command := application.NewOpenCheckoutCommand(application.OpenCheckoutData{
		CheckoutID: id,
		RouteID:    req.RouteID,
		TravelDate: req.TravelDate,
	})
	if err := h.commands.OpenCheckout.Dispatch(ctx, command); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeSnapshot(ctx, w, id, http.StatusCreated)
}

func (h *BusTicketHTTPHandler) HandleGetCheckout(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(r.Context(), w, chi.URLParam(r, "checkoutId"), http.StatusOK)
}

func (h *BusTicketHTTPHandler) HandleDiscardCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Discard(r.Context(), chi.URLParam(r, "checkoutId")); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BusTicketHTTPHandler) HandleToggleSeat(selected bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "checkoutId")
		command := application.NewToggleSeatCommand(application.ToggleSeatData{
			CheckoutID: id,
			SeatNumber: chi.URLParam(r, "seatNumber"),
			Selected:   selected,
		})
		if err := h.commands.ToggleSeat.Dispatch(r.Context(), command); err != nil {
			h.writeError(r.Context(), w, err)
			return
		}
		h.writeSnapshot(r.Context(), w, id, http.StatusOK)
	}
}

// HandlePay conclui a compra. Em caso de falha a resposta também traz a
// compra, para que o frontend mostre a etapa que falhou.
func (h *BusTicketHTTPHandler) HandlePay(w http.ResponseWriter, r *http.Request) {
	var form application.PaymentForm
	if !h.decode(w, r, &form) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "checkoutId")
	command := application.NewCheckoutBookingCommand(application.CheckoutBookingData{CheckoutID: id, Form: form})
	if err := h.commands.CheckoutBooking.Dispatch(ctx, command); err != nil {
		resp := errorBody(err)
		if snap, serr := h.workflow.Snapshot(r.Context(), id); serr == nil {
			resp.Checkout = &snap
		}
		h.logFailure(ctx, err)
		writeJSON(w, statusFor(err), resp)
		return
	}
	h.writeSnapshot(ctx, w, id, http.StatusOK)
}

func (h *BusTicketHTTPHandler) HandleListBookings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cached, _ := strconv.ParseBool(r.URL.Query().Get("cached"))
	bookings, err := h.queries.ListBookings.Dispatch(ctx, application.NewListBookingsQuery(application.ListBookingsData{Cached: cached}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BusTicketHTTPHandler) HandleTicket(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "bookingId")
	if !ok {
		h.writeError(r.Context(), w, application.ValidationErrors{{Field: "bookingId", Message: "booking id must be a positive number"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ticket, err := h.workflow.Ticket(ctx, bookingID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	pdf, filename, err := BuildTicketPDF(ticket)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *BusTicketHTTPHandler) HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "bookingId")
	if !ok {
		h.writeError(r.Context(), w, application.ValidationErrors{{Field: "bookingId", Message: "booking id must be a positive number"}})
		return
	}
	var req cancelRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	data := application.CancelBookingData{BookingID: bookingID, Reason: req.Reason}
	if err := h.commands.CancelBooking.Dispatch(ctx, application.NewCancelBookingCommand(data)); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	cancellation, ok := h.workflow.TakeCancellation(ctx, bookingID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Booking cancelled", "data": data})
		return
	}
	writeJSON(w, http.StatusOK, cancellation)
}

type refundRequest struct {
	BookingID int64 `json:"bookingId"`
}

func (h *BusTicketHTTPHandler) HandleProcessRefund(w http.ResponseWriter, r *http.Request) {
	cancellationID, ok := pathID(r, "cancellationId")
	if !ok {
		h.writeError(r.Context(), w, application.ValidationErrors{{Field: "cancellationId", Message: "cancellation id must be a positive number"}})
		return
	}
	var req refundRequest
	if r.ContentLength > 0 && !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	data := application.ProcessRefundData{CancellationID: cancellationID, BookingID: req.BookingID}
	if err := h.commands.ProcessRefund.Dispatch(ctx, application.NewProcessRefundCommand(data)); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	cancellation, ok := h.workflow.TakeRefund(ctx, cancellationID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Refund processed", "data": data})
		return
	}
	writeJSON(w, http.StatusOK, cancellation)
}

func (h *BusTicketHTTPHandler) HandleUnresolvedCheckouts(w http.ResponseWriter, r *http.Request) {
	entries, err := h.workflow.UnresolvedCheckouts(r.Context())
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *BusTicketHTTPHandler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.writeError(r.Context(), w, application.ValidationErrors{{Field: "id", Message: "id must be a positive number"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.admin.Delete(ctx, application.EntityKind(chi.URLParam(r, "kind")), id); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// optionalID lê o {id} das rotas PUT; nas rotas POST não há id e o valor é 0.
func optionalID(r *http.Request) (int64, bool) {
	if chi.URLParam(r, "id") == "" {
		return 0, true
	}
	return pathID(r, "id")
}

func (h *BusTicketHTTPHandler) HandleSaveBus(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(r)
	if !ok {
		h.writeError(r.Context(), w, application.ValidationErrors{{Field: "id", Message: "id must be a positive number"}})
		return
	}
	var bus domain.Bus
	if !h.decode(w, r, &bus) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	saved, err := h.admin.SaveBus(ctx, id, bus)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

func (h *BusTicketHTTPHandler) HandleSaveRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(r)
	if !ok {
		h.writeError(r.Context(), w, application.ValidationErrors{{Field: "id", Message: "id must be a positive number"}})
		return
	}
	var route domain.Route
	if !h.decode(w, r, &route) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	saved, err := h.admin.SaveRoute(ctx, id, route)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

func (h *BusTicketHTTPHandler) writeSnapshot(ctx context.Context, w http.ResponseWriter, id string, status int) {
	snap, err := h.workflow.Snapshot(ctx, id)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, status, snap)
}

func (h *BusTicketHTTPHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(r.Context(), w, application.ValidationErrors{{Field: "body", Message: "invalid request body"}})
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

type errorResponse struct {
	Message  string                        `json:"message"`
	Errors   []application.FieldError      `json:"errors,omitempty"`
	Checkout *application.CheckoutSnapshot `json:"checkout,omitempty"`
}

func errorBody(err error) errorResponse {
	resp := errorResponse{Message: err.Error()}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var parts []string
		for _, e := range joined.Unwrap() {
			parts = append(parts, e.Error())
		}
		resp.Message = strings.Join(parts, "; ")
	}
	var verr application.ValidationErrors
	if errors.As(err, &verr) {
		resp.Message = "validation failed"
		resp.Errors = verr
	}
	return resp
}

// statusFor traduz erros do domínio e do backend em status HTTP. Status 4xx
// do backend passam adiante; 5xx e falhas de transporte viram 502.
func statusFor(err error) int {
	var verr application.ValidationErrors
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &verr), errors.Is(err, application.ErrReasonRequired):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, application.ErrCheckoutNotFound),
		errors.Is(err, application.ErrBookingNotFound),
		errors.Is(err, application.ErrUnknownEntity),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidEntity):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrInvalidTransition),
		errors.Is(err, application.ErrNotCancellable),
		errors.Is(err, application.ErrSeatUnavailable):
		return http.StatusConflict
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, application.ErrCatalogUnavailable),
		errors.Is(err, application.ErrPaymentDeclined),
		errors.Is(err, backend.ErrMalformedResponse),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway
	}
	var stepErr *application.StepError
	if errors.As(err, &stepErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *BusTicketHTTPHandler) logFailure(ctx context.Context, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		pkgApp.LogError(ctx, h.logger, "Erro ao processar requisição", err, nil)
	}
}

func (h *BusTicketHTTPHandler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	h.logFailure(ctx, err)
	writeJSON(w, statusFor(err), errorBody(err))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *BusTicketHTTPHandler) HandleSaveSeat(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(r)
	if !ok {
		h.writeError(r.Context(), w, application.ValidationErrors{{Field: "id", Message: "id must be a positive number"}})
		return
	}
	var seat domain.Seat
	if !h.decode(w, r, &seat) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	saved, err := h.admin.SaveSeat(ctx, id, seat)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

func (h *BusTicketHTTPHandler) HandleListOperators(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	operators, err := h.admin.Operators(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, operators)
}

func (h *BusTicketHTTPHandler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	payments, err := h.admin.Payments(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *BusTicketHTTPHandler) HandleListCancellations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cancellations, err := h.workflow.ListCancellations(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, cancellations)
}

func (h *BusTicketHTTPHandler) HandleGetBus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "busId")
	if !ok {
		h.writeError(r.Context(), w, application.ValidationErrors{{Field: "busId", Message: "busId must be a positive number"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	bus, err := h.workflow.Bus(ctx, id)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, bus)
}
