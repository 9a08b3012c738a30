package application

import (
	"sort"
	"strings"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
)

type SeatRow struct {
	Row   string        `json:"row"`
	Seats []domain.Seat `json:"seats"`
}

// SeatMap é a foto somente-leitura da disponibilidade de um ônibus em um dia.
type SeatMap struct {
	BusID int64       `json:"busId"`
	Date  domain.Date `json:"date"`
	Rows  []SeatRow   `json:"rows"`

	// SelectableSeats são os números oferecidos ao usuário, na ordem do mapa.
	SelectableSeats []string `json:"selectable"`

	index map[string]domain.Seat
}

// BuildSeatMap agrupa os assentos pela letra da fileira e ordena cada
// fileira pelo sufixo numérico.
func BuildSeatMap(busID int64, date domain.Date, seats []domain.Seat) *SeatMap {
	m := &SeatMap{BusID: busID, Date: date, index: make(map[string]domain.Seat, len(seats))}
	rows := make(map[string][]domain.Seat)
	for _, s := range seats {
		m.index[strings.ToUpper(s.SeatNumber)] = s
		rows[s.Row()] = append(rows[s.Row()], s)
	}

	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		rs := rows[name]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Column() < rs[j].Column() })
		m.Rows = append(m.Rows, SeatRow{Row: name, Seats: rs})
	}

	m.SelectableSeats = make([]string, 0, len(seats))
	for _, s := range m.Selectable() {
		m.SelectableSeats = append(m.SelectableSeats, s.SeatNumber)
	}
	return m
}

func (m *SeatMap) Lookup(seatNumber string) (domain.Seat, bool) {
	s, ok := m.index[strings.ToUpper(strings.TrimSpace(seatNumber))]
	return s, ok
}

// Selectable devolve os assentos que podem ser oferecidos ao usuário;
// assentos Booked nunca aparecem.
func (m *SeatMap) Selectable() []domain.Seat {
	var out []domain.Seat
	for _, row := range m.Rows {
		for _, s := range row.Seats {
			if !s.Booked() {
				out = append(out, s)
			}
		}
	}
	return out
}
