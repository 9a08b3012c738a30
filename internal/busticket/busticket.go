package busticket

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-bff/internal/busticket/application"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/internal/busticket/infrastructure"
	"github.com/mateusmacedo/go-bff/internal/clock"
	"github.com/mateusmacedo/go-bff/internal/config"
	"github.com/mateusmacedo/go-bff/internal/metrics"
	"github.com/mateusmacedo/go-bff/internal/session"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-bff/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-bff/pkg/infrastructure"
)

// CheckoutRetention é o tempo que uma compra ociosa permanece na memória.
const CheckoutRetention = time.Hour

// Deps reúne as dependências da fatia. LocalEvents entrega cada evento a esta
// instância (projeção); quando nil, EventBus é usado para tudo.
type Deps struct {
	Gateway      application.Gateway
	SessionStore session.Store
	Journal      domain.CheckoutJournal
	Projection   domain.BookingProjection
	EventBus     application.BookingEventBus
	LocalEvents  application.BookingEventBus
	Clock        clock.Clock
	IDGenerator  pkgDomain.IDGenerator[string]
	Mode         config.CheckoutMode
	Metrics      *metrics.Metrics
	Logger       pkgApp.AppLogger
	Timeout      time.Duration
	SecureCookie bool
}

type BusTicketSlice struct {
	httpHandler *infrastructure.BusTicketHTTPHandler
	workflow    *application.Workflow
}

func NewBusTicketSlice(deps Deps) *BusTicketSlice {
	logger := deps.Logger

	workflow := application.NewWorkflow(application.WorkflowDeps{
		Gateway:     deps.Gateway,
		Checkouts:   application.NewCheckoutStore(CheckoutRetention),
		Journal:     deps.Journal,
		Projection:  deps.Projection,
		Events:      deps.EventBus,
		Sessions:    deps.SessionStore,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Mode:        deps.Mode,
		Metrics:     deps.Metrics,
		Logger:      logger,
	})
	sessions := application.NewSessions(deps.Gateway, deps.SessionStore, deps.IDGenerator, deps.Clock, logger)
	admin := application.NewAdmin(deps.Gateway, deps.Projection, logger)

	commands := infrastructure.CommandBuses{
		OpenCheckout:    pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.OpenCheckoutData], application.OpenCheckoutData](logger),
		ToggleSeat:      pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.ToggleSeatData], application.ToggleSeatData](logger),
		CheckoutBooking: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CheckoutBookingData], application.CheckoutBookingData](logger),
		CancelBooking:   pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData](logger),
		ProcessRefund:   pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.ProcessRefundData], application.ProcessRefundData](logger),
	}
	commands.OpenCheckout.RegisterHandler(application.OpenCheckoutCommand, application.NewOpenCheckoutHandler(workflow, logger))
	commands.ToggleSeat.RegisterHandler(application.ToggleSeatCommand, application.NewToggleSeatHandler(workflow, logger))
	commands.CheckoutBooking.RegisterHandler(application.CheckoutBookingCommand, application.NewCheckoutBookingHandler(workflow, logger))
	commands.CancelBooking.RegisterHandler(application.CancelBookingCommand, application.NewCancelBookingHandler(workflow, logger))
	commands.ProcessRefund.RegisterHandler(application.ProcessRefundCommand, application.NewProcessRefundHandler(workflow, logger))

	queries := infrastructure.QueryBuses{
		FindBuses:    pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindBusesData], application.FindBusesData, []application.BusRoutes](logger),
		FindRoutes:   pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.RouteFilter], application.RouteFilter, []domain.Route](logger),
		FindSeats:    pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindSeatsData], application.FindSeatsData, *application.SeatMap](logger),
		ListBookings: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []domain.Booking](logger),
	}
	queries.FindBuses.RegisterHandler(application.FindBusesQuery, application.NewFindBusesHandler(deps.Gateway, logger))
	queries.FindRoutes.RegisterHandler(application.FindRoutesQuery, application.NewFindRoutesHandler(deps.Gateway, logger))
	queries.FindSeats.RegisterHandler(application.FindSeatsQuery, application.NewFindSeatsHandler(deps.Gateway, logger))
	queries.ListBookings.RegisterHandler(application.ListBookingsQuery, application.NewListBookingsHandler(workflow, logger))

	if deps.EventBus != nil {
		local := deps.LocalEvents
		if local == nil {
			local = deps.EventBus
		}
		projectionHandler := application.NewBookingProjectionHandler(deps.Projection, logger)
		auditHandler := application.NewBookingAuditHandler(logger)
		countHandler := pkgApp.EventHandlerFunc[application.BookingEvent, application.BookingEventData](
			func(_ context.Context, event application.BookingEvent) error {
				deps.Metrics.RecordEvent(event.EventName())
				return nil
			})
		for _, name := range application.BookingEventNames {
			local.RegisterHandler(name, projectionHandler)
			local.RegisterHandler(name, countHandler)
			deps.EventBus.RegisterHandler(name, auditHandler)
		}
	}

	httpHandler := infrastructure.NewBusTicketHTTPHandler(infrastructure.HTTPDeps{
		Sessions:     sessions,
		Workflow:     workflow,
		Admin:        admin,
		Commands:     commands,
		Queries:      queries,
		IDGenerator:  deps.IDGenerator,
		Logger:       logger,
		Timeout:      deps.Timeout,
		SecureCookie: deps.SecureCookie,
	})

	return &BusTicketSlice{
		httpHandler: httpHandler,
		workflow:    workflow,
	}
}

func (s *BusTicketSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}

func (s *BusTicketSlice) Workflow() *application.Workflow {
	return s.workflow
}
