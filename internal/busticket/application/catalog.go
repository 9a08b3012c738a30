package application

import (
	"sort"
	"strings"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

// BusRoutes é um ônibus com as rotas que o referenciam.
type BusRoutes struct {
	Bus    domain.Bus     `json:"bus"`
	Routes []domain.Route `json:"routes"`
}

// JoinRoutes faz o left join ônibus -> rotas; ônibus sem rota ficam com
// lista vazia.
func JoinRoutes(buses []domain.Bus, routes []domain.Route) []BusRoutes {
	byBus := make(map[int64][]domain.Route, len(buses))
	for _, r := range routes {
		byBus[r.BusID()] = append(byBus[r.BusID()], r)
	}
	out := make([]BusRoutes, 0, len(buses))
	for _, b := range buses {
		rs := byBus[b.BusID]
		if rs == nil {
			rs = []domain.Route{}
		}
		out = append(out, BusRoutes{Bus: b, Routes: rs})
	}
	return out
}

// RouteFilter são os critérios de busca; campos vazios não filtram.
type RouteFilter struct {
	Origin      string
	Destination string
	Date        *domain.Date
}

// SearchRoutes filtra por origem e destino (sem diferenciar maiúsculas) e
// pelo dia da partida, ordenando pelo horário de partida.
func SearchRoutes(routes []domain.Route, f RouteFilter) []domain.Route {
	origin := strings.TrimSpace(f.Origin)
	destination := strings.TrimSpace(f.Destination)

	out := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		if origin != "" && !strings.EqualFold(strings.TrimSpace(r.Origin), origin) {
			continue
		}
		if destination != "" && !strings.EqualFold(strings.TrimSpace(r.Destination), destination) {
			continue
		}
		if f.Date != nil && !domain.SameDay(r.DepartureTime.Time, f.Date.Time) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DepartureTime.Before(out[j].DepartureTime.Time)
	})
	return out
}
