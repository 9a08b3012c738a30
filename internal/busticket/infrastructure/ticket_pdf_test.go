package infrastructure

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-bff/internal/busticket/application"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

func TestBuildTicketPDF(t *testing.T) {
	departure := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)
	ticket := application.Ticket{
		Booking: domain.Booking{
			BookingID:      101,
			Status:         domain.BookingConfirmed,
			TravelDate:     domain.NewDate(departure),
			TotalAmount:    1000,
			SeatNumbers:    []string{"A1", "A2"},
			PassengerCount: 2,
		},
		Route: &domain.Route{
			RouteID:       10,
			Origin:        "Recife",
			Destination:   "Natal",
			DepartureTime: domain.NewTimestamp(departure),
			Bus:           &domain.Bus{BusName: "Expresso", BusNumber: "PE-100"},
		},
		Payment: &domain.Payment{
			PaymentID:     501,
			AmountPaid:    1000,
			PaymentStatus: domain.PaymentSuccess,
			PaymentMethod: "CARD",
			PaymentDate:   domain.NewTimestamp(departure.Add(-48 * time.Hour)),
		},
	}

	data, filename, err := BuildTicketPDF(ticket)

	require.NoError(t, err)
	assert.Equal(t, "TICKET_101.pdf", filename)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestBuildTicketPDF_WithoutRouteOrPayment(t *testing.T) {
	data, filename, err := BuildTicketPDF(application.Ticket{
		Booking: domain.Booking{BookingID: 7, Status: domain.BookingCancelled},
	})

	require.NoError(t, err)
	assert.Equal(t, "TICKET_7.pdf", filename)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestSafe(t *testing.T) {
	assert.Equal(t, "-", safe("   ", "-"))
	assert.Equal(t, "Recife", safe(" Recife ", "-"))
}
