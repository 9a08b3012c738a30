package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

func (c *Client) ListBuses(ctx context.Context) ([]domain.Bus, error) {
	var out []domain.Bus
	if err := c.do(ctx, "list buses", http.MethodGet, "/api/buses/getall", nil, &out); err != nil {
		return nil, err
	}
	return out, checkAll("list buses", out)
}

func (c *Client) GetBus(ctx context.Context, id int64) (domain.Bus, error) {
	var out domain.Bus
	if err := c.do(ctx, "get bus", http.MethodGet, fmt.Sprintf("/api/buses/%d", id), nil, &out); err != nil {
		return domain.Bus{}, err
	}
	return out, checkOne("get bus", out)
}

func (c *Client) AddBus(ctx context.Context, bus domain.Bus) (domain.Bus, error) {
	var out domain.Bus
	if err := c.do(ctx, "add bus", http.MethodPost, "/api/buses/add", bus, &out); err != nil {
		return domain.Bus{}, err
	}
	return out, nil
}

func (c *Client) UpdateBus(ctx context.Context, id int64, bus domain.Bus) (domain.Bus, error) {
	var out domain.Bus
	if err := c.do(ctx, "update bus", http.MethodPut, fmt.Sprintf("/api/buses/update/%d", id), bus, &out); err != nil {
		return domain.Bus{}, err
	}
	return out, nil
}

func (c *Client) DeleteBus(ctx context.Context, id int64) error {
	return c.do(ctx, "delete bus", http.MethodDelete, fmt.Sprintf("/api/buses/delete/%d", id), nil, nil)
}

func (c *Client) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	var out []domain.Route
	if err := c.do(ctx, "list routes", http.MethodGet, "/api/routes/getall", nil, &out); err != nil {
		return nil, err
	}
	return out, checkAll("list routes", out)
}

func (c *Client) GetRoute(ctx context.Context, id int64) (domain.Route, error) {
	var out domain.Route
	if err := c.do(ctx, "get route", http.MethodGet, fmt.Sprintf("/api/routes/%d", id), nil, &out); err != nil {
		return domain.Route{}, err
	}
	return out, checkOne("get route", out)
}

func (c *Client) AddRoute(ctx context.Context, route domain.Route) (domain.Route, error) {
	var out domain.Route
	if err := c.do(ctx, "add route", http.MethodPost, "/api/routes/add", route, &out); err != nil {
		return domain.Route{}, err
	}
	return out, nil
}

func (c *Client) UpdateRoute(ctx context.Context, id int64, route domain.Route) (domain.Route, error) {
	var out domain.Route
	if err := c.do(ctx, "update route", http.MethodPut, fmt.Sprintf("/api/routes/update/%d", id), route, &out); err != nil {
		return domain.Route{}, err
	}
	return out, nil
}

func (c *Client) DeleteRoute(ctx context.Context, id int64) error {
	return c.do(ctx, "delete route", http.MethodDelete, fmt.Sprintf("/api/routes/delete/%d", id), nil, nil)
}

// GetSeats busca a disponibilidade por ônibus e dia; a hora é descartada.
func (c *Client) GetSeats(ctx context.Context, busID int64, date domain.Date) ([]domain.Seat, error) {
	var out []domain.Seat
	path := fmt.Sprintf("/api/seats/bus/%d/date/%s", busID, date.String())
	if err := c.do(ctx, "get seats", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, checkAll("get seats", out)
}

func (c *Client) AddSeat(ctx context.Context, seat domain.Seat) (domain.Seat, error) {
	var out domain.Seat
	if err := c.do(ctx, "add seat", http.MethodPost, "/api/seats/add", seat, &out); err != nil {
		return domain.Seat{}, err
	}
	return out, nil
}

func (c *Client) UpdateSeat(ctx context.Context, id int64, seat domain.Seat) (domain.Seat, error) {
	var out domain.Seat
	if err := c.do(ctx, "update seat", http.MethodPut, fmt.Sprintf("/api/seats/update/%d", id), seat, &out); err != nil {
		return domain.Seat{}, err
	}
	return out, nil
}

func (c *Client) DeleteSeat(ctx context.Context, id int64) error {
	return c.do(ctx, "delete seat", http.MethodDelete, fmt.Sprintf("/api/seats/delete/%d", id), nil, nil)
}

func (c *Client) ListOperators(ctx context.Context) ([]domain.Operator, error) {
	var out []domain.Operator
	if err := c.do(ctx, "list operators", http.MethodGet, "/api/operators/getall", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteOperator(ctx context.Context, id int64) error {
	return c.do(ctx, "delete operator", http.MethodDelete, fmt.Sprintf("/api/operators/delete/%d", id), nil, nil)
}
