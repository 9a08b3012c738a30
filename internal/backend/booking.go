package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

func (c *Client) listBookings(ctx context.Context, op, path string) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := c.do(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, checkAll(op, out)
}

func (c *Client) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	return c.listBookings(ctx, "list my bookings", "/api/bookings/my")
}

func (c *Client) AllBookings(ctx context.Context) ([]domain.Booking, error) {
	return c.listBookings(ctx, "list all bookings", "/api/bookings/getall")
}

func (c *Client) booking(ctx context.Context, op, method, path string, body interface{}) (domain.Booking, error) {
	var out domain.Booking
	if err := c.do(ctx, op, method, path, body, &out); err != nil {
		return domain.Booking{}, err
	}
	out.Normalize()
	return out, checkOne(op, out)
}

func (c *Client) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return c.booking(ctx, "get booking", http.MethodGet, fmt.Sprintf("/api/bookings/%d", id), nil)
}

func (c *Client) AddBooking(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	return c.booking(ctx, "submit booking", http.MethodPost, "/api/bookings/add", req)
}

func (c *Client) UpdateBooking(ctx context.Context, id int64, req domain.BookingRequest) (domain.Booking, error) {
	return c.booking(ctx, "update booking", http.MethodPut, fmt.Sprintf("/api/bookings/update/%d", id), req)
}

func (c *Client) DeleteBooking(ctx context.Context, id int64) error {
	return c.do(ctx, "delete booking", http.MethodDelete, fmt.Sprintf("/api/bookings/delete/%d", id), nil, nil)
}
