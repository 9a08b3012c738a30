package infrastructure

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/mateusmacedo/go-bff/internal/busticket/application"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

// BuildTicketPDF gera o bilhete com o recibo do pagamento em uma página A4.
func BuildTicketPDF(t application.Ticket) ([]byte, string, error) {
	b := t.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bus Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS TICKET")
	pdf.Ln(12)

	origin, destination, departure, busName := "-", "-", "-", "-"
	if r := t.Route; r != nil {
		origin = safe(r.Origin, "-")
		destination = safe(r.Destination, "-")
		if !r.DepartureTime.IsZero() {
			departure = r.DepartureTime.Format("15:04")
		}
		if r.Bus != nil {
			busName = safe(strings.TrimSpace(r.Bus.BusName+" "+r.Bus.BusNumber), "-")
		}
	}

	travelDate := "-"
	if !b.TravelDate.IsZero() {
		travelDate = b.TravelDate.String()
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking        : #%d", b.BookingID),
		fmt.Sprintf("Status         : %s", safe(string(b.Status), "-")),
		fmt.Sprintf("Route          : %s -> %s", origin, destination),
		fmt.Sprintf("Travel date    : %s %s", travelDate, departure),
		fmt.Sprintf("Bus            : %s", busName),
		fmt.Sprintf("Seats          : %s", safe(strings.Join(b.SeatNumbers, ", "), "-")),
		fmt.Sprintf("Passengers     : %d", b.PassengerCount),
		fmt.Sprintf("Total          : %.2f", b.TotalAmount),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Payment receipt")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	if p := t.Payment; p != nil {
		paid := "-"
		if !p.PaymentDate.IsZero() {
			paid = p.PaymentDate.Format("2006-01-02 15:04")
		}
		for _, s := range []string{
			fmt.Sprintf("Payment        : #%d", p.PaymentID),
			fmt.Sprintf("Amount paid    : %.2f", p.AmountPaid),
			fmt.Sprintf("Method         : %s", safe(p.PaymentMethod, "-")),
			fmt.Sprintf("Status         : %s", safe(string(p.PaymentStatus), "-")),
			fmt.Sprintf("Paid at        : %s", paid),
		} {
			pdf.Cell(0, 7, s)
			pdf.Ln(7)
		}
	} else {
		pdf.Cell(0, 7, "No payment recorded for this booking.")
		pdf.Ln(7)
	}

	if b.Status == domain.BookingCancelled || b.Status == domain.BookingRefunded {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "This booking was cancelled and is no longer valid for travel.", "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render ticket pdf: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("TICKET_%d.pdf", b.BookingID), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
