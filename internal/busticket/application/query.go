package application

import (
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	pkgDomain "github.com/mateusmacedo/go-bff/pkg/domain"
)

const (
	FindBusesQuery    = "FindBuses"
	FindRoutesQuery   = "FindRoutes"
	FindSeatsQuery    = "FindSeats"
	ListBookingsQuery = "ListBookings"
)

type FindBusesData struct{}

func NewFindBusesQuery() pkgDomain.Query[FindBusesData] {
	return pkgDomain.NewQuery(FindBusesQuery, FindBusesData{})
}

func NewFindRoutesQuery(filter RouteFilter) pkgDomain.Query[RouteFilter] {
	return pkgDomain.NewQuery(FindRoutesQuery, filter)
}

type FindSeatsData struct {
	BusID int64
	Date  domain.Date
}

func NewFindSeatsQuery(data FindSeatsData) pkgDomain.Query[FindSeatsData] {
	return pkgDomain.NewQuery(FindSeatsQuery, data)
}

// ListBookingsData: Cached devolve a projeção local sem consultar o backend.
type ListBookingsData struct {
	Cached bool
}

func NewListBookingsQuery(data ListBookingsData) pkgDomain.Query[ListBookingsData] {
	return pkgDomain.NewQuery(ListBookingsQuery, data)
}
