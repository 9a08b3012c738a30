package domain

// Operator é uma empresa operadora cadastrada pelo administrador.
type Operator struct {
	OperatorID int64  `json:"operatorId"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}
