package application

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PaymentMethodCard é o único meio aceito pelo gateway simulado.
const PaymentMethodCard = "Credit Card"

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
	cardPattern   = regexp.MustCompile(`^\d{16}$`)

	validate = validator.New()
)

// PaymentForm é o formulário de cartão do gateway simulado; nenhum dado do
// cartão é enviado ao backend.
type PaymentForm struct {
	Email      string `json:"email"`
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// Validate verifica email, número do cartão, titular, validade e CVV nesta
// ordem e acumula todos os erros.
func (f PaymentForm) Validate(now time.Time) error {
	var errs ValidationErrors

	email := strings.TrimSpace(f.Email)
	switch {
	case email == "":
		errs.Add("email", "email is required")
	case validate.Var(email, "email") != nil:
		errs.Add("email", "enter a valid email address")
	}

	if !cardPattern.MatchString(strings.ReplaceAll(f.CardNumber, " ", "")) {
		errs.Add("cardNumber", "card number must have 16 digits")
	}

	if len(strings.TrimSpace(f.CardHolder)) < 3 {
		errs.Add("cardHolder", "card holder name must have at least 3 characters")
	}

	if msg := checkExpiry(strings.TrimSpace(f.Expiry), now); msg != "" {
		errs.Add("expiry", msg)
	}

	if !cvvPattern.MatchString(strings.TrimSpace(f.CVV)) {
		errs.Add("cvv", "CVV must have 3 or 4 digits")
	}

	return errs.OrNil()
}

// checkExpiry aceita cartões válidos até o fim do mês informado.
func checkExpiry(expiry string, now time.Time) string {
	m := expiryPattern.FindStringSubmatch(expiry)
	if m == nil {
		return "expiry must be in MM/YY format"
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000

	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return "card has expired"
	}
	return ""
}
