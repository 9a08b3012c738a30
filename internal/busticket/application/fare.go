package application

import "github.com/mateusmacedo/go-bff/internal/busticket/domain"

// ComputeFare devolve a tarifa da rota multiplicada pelo número de assentos.
func ComputeFare(seats []string, route domain.Route) float64 {
	return domain.RoundCents(route.Fare * float64(len(seats)))
}
