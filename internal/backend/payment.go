package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

// ProcessPayment envia apenas o pagamento de uma reserva já criada.
func (c *Client) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.Payment, error) {
	var out domain.Payment
	if err := c.do(ctx, "submit payment", http.MethodPost, "/api/payments/process", req, &out); err != nil {
		return domain.Payment{}, err
	}
	out.Normalize()
	return out, checkOne("submit payment", out)
}

// ProcessCheckout envia reserva e pagamento juntos para que o backend grave
// os dois na mesma transação.
func (c *Client) ProcessCheckout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	var out domain.CheckoutResult
	if err := c.do(ctx, "checkout", http.MethodPost, "/api/payments/process", req, &out); err != nil {
		return domain.CheckoutResult{}, err
	}
	out.Booking.Normalize()
	out.Payment.Normalize()
	if out.Payment.BookingID == 0 {
		out.Payment.BookingID = out.Booking.BookingID
	}
	return out, checkOne("checkout", out)
}

func (c *Client) PaymentForBooking(ctx context.Context, bookingID int64) (domain.Payment, error) {
	var out domain.Payment
	if err := c.do(ctx, "get payment", http.MethodGet, fmt.Sprintf("/api/payments/booking/%d", bookingID), nil, &out); err != nil {
		return domain.Payment{}, err
	}
	out.Normalize()
	return out, checkOne("get payment", out)
}

func (c *Client) AllPayments(ctx context.Context) ([]domain.Payment, error) {
	var out []domain.Payment
	if err := c.do(ctx, "list payments", http.MethodGet, "/api/payments/getall", nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, checkAll("list payments", out)
}
