package domain

import (
	"fmt"
	"strings"
)

type Route struct {
	RouteID       int64     `json:"routeId"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime Timestamp `json:"departureTime"`
	ArrivalTime   Timestamp `json:"arrivalTime"`
	Distance      float64   `json:"distance"`
	Fare          float64   `json:"fare"`
	Bus           *Bus      `json:"bus,omitempty"`
}

// BusID devolve o ônibus associado ou zero quando a referência falta.
func (r Route) BusID() int64 {
	if r.Bus == nil {
		return 0
	}
	return r.Bus.BusID
}

func (r Route) Validate() error {
	switch {
	case strings.TrimSpace(r.Origin) == "" || strings.TrimSpace(r.Destination) == "":
		return fmt.Errorf("%w: origin and destination are required", ErrInvalidEntity)
	case !r.ArrivalTime.After(r.DepartureTime.Time):
		return fmt.Errorf("%w: arrival must be after departure", ErrInvalidEntity)
	case r.Fare < 0:
		return fmt.Errorf("%w: fare must not be negative", ErrInvalidEntity)
	case r.Distance < 0:
		return fmt.Errorf("%w: distance must not be negative", ErrInvalidEntity)
	case r.BusID() == 0:
		return fmt.Errorf("%w: route must reference a bus", ErrInvalidEntity)
	}
	return nil
}

func (r Route) CheckEnums() error {
	if r.Bus != nil {
		return r.Bus.CheckEnums()
	}
	return nil
}
