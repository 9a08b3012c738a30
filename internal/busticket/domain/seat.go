package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type SeatType string

const (
	SeatTypeNormal SeatType = "Normal"
	SeatTypeWindow SeatType = "Window"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "Available"
	SeatBooked    SeatStatus = "Booked"
)

type Seat struct {
	SeatID     int64      `json:"seatId"`
	SeatNumber string     `json:"seatNumber"`
	SeatType   SeatType   `json:"seatType"`
	SeatStatus SeatStatus `json:"seatStatus"`
	Bus        *Bus       `json:"bus,omitempty"`
}

// Booked indica se o assento está ocupado na data da foto.
func (s Seat) Booked() bool {
	return s.SeatStatus == SeatBooked
}

// Row devolve o prefixo de letras do número do assento ("A" em "A12").
func (s Seat) Row() string {
	i := strings.IndexFunc(s.SeatNumber, unicode.IsDigit)
	if i < 0 {
		return strings.ToUpper(s.SeatNumber)
	}
	return strings.ToUpper(s.SeatNumber[:i])
}

// Column devolve o sufixo numérico; -1 quando ausente.
func (s Seat) Column() int {
	i := strings.IndexFunc(s.SeatNumber, unicode.IsDigit)
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(s.SeatNumber[i:])
	if err != nil {
		return -1
	}
	return n
}

func (s Seat) CheckEnums() error {
	switch s.SeatStatus {
	case SeatAvailable, SeatBooked:
	default:
		return fmt.Errorf("%w: unknown seat status %q", ErrInvalidEntity, s.SeatStatus)
	}
	switch s.SeatType {
	case "", SeatTypeNormal, SeatTypeWindow:
	default:
		return fmt.Errorf("%w: unknown seat type %q", ErrInvalidEntity, s.SeatType)
	}
	return nil
}

func (s Seat) Validate() error {
	if s.Row() == "" || s.Column() < 0 {
		return fmt.Errorf("%w: seat number %q must be row letters followed by a number", ErrInvalidEntity, s.SeatNumber)
	}
	if s.SeatType == "" {
		return fmt.Errorf("%w: seat type is required", ErrInvalidEntity)
	}
	if s.Bus == nil || s.Bus.BusID == 0 {
		return fmt.Errorf("%w: seat must reference a bus", ErrInvalidEntity)
	}
	return s.CheckEnums()
}
