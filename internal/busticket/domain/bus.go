package domain

import (
	"fmt"
	"strings"
)

type BusType string

const (
	BusTypeSleeper BusType = "Sleeper"
	BusTypeAC      BusType = "A/C"
	BusTypeNonAC   BusType = "Non-A/C"
)

func (t BusType) Valid() bool {
	switch t {
	case BusTypeSleeper, BusTypeAC, BusTypeNonAC:
		return true
	}
	return false
}

type Bus struct {
	BusID      int64   `json:"busId"`
	BusName    string  `json:"busName"`
	BusNumber  string  `json:"busNumber"`
	BusType    BusType `json:"busType"`
	TotalSeats int     `json:"totalSeats"`
	Amenities  string  `json:"amenities"`
}

// AmenityList separa o texto livre de comodidades (separado por vírgulas).
func (b Bus) AmenityList() []string {
	var out []string
	for _, a := range strings.Split(b.Amenities, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Validate aplica as regras de cadastro de ônibus.
func (b Bus) Validate() error {
	switch {
	case strings.TrimSpace(b.BusName) == "":
		return fmt.Errorf("%w: bus name is required", ErrInvalidEntity)
	case strings.TrimSpace(b.BusNumber) == "":
		return fmt.Errorf("%w: bus number is required", ErrInvalidEntity)
	case !b.BusType.Valid():
		return fmt.Errorf("%w: unknown bus type %q", ErrInvalidEntity, b.BusType)
	case b.TotalSeats <= 0:
		return fmt.Errorf("%w: total seats must be positive", ErrInvalidEntity)
	}
	return nil
}

// CheckEnums valida apenas os campos enumerados de um DTO recebido.
func (b Bus) CheckEnums() error {
	if b.BusType != "" && !b.BusType.Valid() {
		return fmt.Errorf("%w: unknown bus type %q", ErrInvalidEntity, b.BusType)
	}
	return nil
}
