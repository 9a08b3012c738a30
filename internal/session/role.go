package session

import (
	"fmt"
	"strings"
)

// Role é o papel do usuário autenticado, emitido pelo backend no login.
type Role string

const (
	RoleUser     Role = "USER"
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
)

// ParseRole aceita apenas os papéis conhecidos (sem diferenciar maiúsculas).
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin, RoleOperator:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	return string(r)
}

// Capability representa uma ação protegida do sistema.
type Capability int

const (
	CapBook Capability = iota + 1
	CapViewOwnBookings
	CapViewAllBookings
	CapProcessRefund
	CapManageFleet
	CapManageOperators
	CapDeleteBookings
)

var capabilityNames = map[Capability]string{
	CapBook:            "book",
	CapViewOwnBookings: "view_own_bookings",
	CapViewAllBookings: "view_all_bookings",
	CapProcessRefund:   "process_refund",
	CapManageFleet:     "manage_fleet",
	CapManageOperators: "manage_operators",
	CapDeleteBookings:  "delete_bookings",
}

func (c Capability) String() string {
	if n, ok := capabilityNames[c]; ok {
		return n
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

var grants = map[Role]map[Capability]bool{
	RoleUser: {
		CapBook:            true,
		CapViewOwnBookings: true,
	},
	RoleAdmin: {
		CapViewOwnBookings: true,
		CapViewAllBookings: true,
		CapManageFleet:     true,
		CapManageOperators: true,
		CapDeleteBookings:  true,
	},
	RoleOperator: {
		CapViewOwnBookings: true,
		CapViewAllBookings: true,
		CapProcessRefund:   true,
		CapManageFleet:     true,
	},
}

// Can decide o acesso pela capacidade, nunca pela comparação do nome do papel.
func (r Role) Can(c Capability) bool {
	return grants[r][c]
}
