package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

func (c *Client) Cancel(ctx context.Context, req domain.CancellationRequest) (domain.Cancellation, error) {
	var out domain.Cancellation
	if err := c.do(ctx, "cancel booking", http.MethodPost, "/api/cancellations/cancel", req, &out); err != nil {
		return domain.Cancellation{}, err
	}
	out.Normalize()
	if out.BookingID == 0 {
		out.BookingID = req.BookingID
	}
	return out, checkOne("cancel booking", out)
}

// ProcessRefund marca o cancelamento como reembolsado (somente operador).
func (c *Client) ProcessRefund(ctx context.Context, cancellationID int64) (domain.Cancellation, error) {
	var out domain.Cancellation
	path := fmt.Sprintf("/api/cancellations/%d/refund", cancellationID)
	if err := c.do(ctx, "process refund", http.MethodPost, path, nil, &out); err != nil {
		return domain.Cancellation{}, err
	}
	out.Normalize()
	if out.CancellationID == 0 {
		out.CancellationID = cancellationID
	}
	return out, checkOne("process refund", out)
}

func (c *Client) listCancellations(ctx context.Context, op, path string) ([]domain.Cancellation, error) {
	var out []domain.Cancellation
	if err := c.do(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, checkAll(op, out)
}

func (c *Client) MyCancellations(ctx context.Context) ([]domain.Cancellation, error) {
	return c.listCancellations(ctx, "list my cancellations", "/api/cancellations/my")
}

func (c *Client) AllCancellations(ctx context.Context) ([]domain.Cancellation, error) {
	return c.listCancellations(ctx, "list all cancellations", "/api/cancellations/getall")
}
