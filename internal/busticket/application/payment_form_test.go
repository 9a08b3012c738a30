package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentForm_Validate(t *testing.T) {
	feb2024 := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*PaymentForm)
		field  string
		msg    string
	}{
		{"valid", func(*PaymentForm) {}, "", ""},
		{"card with spaces", func(f *PaymentForm) { f.CardNumber = "4111 1111 1111 1111" }, "", ""},
		{"short card", func(f *PaymentForm) { f.CardNumber = "4111 1111 1111" }, "cardNumber", "card number must have 16 digits"},
		{"letters in card", func(f *PaymentForm) { f.CardNumber = "4111-1111-1111-1111" }, "cardNumber", "card number must have 16 digits"},
		{"expired last month", func(f *PaymentForm) { f.Expiry = "01/24" }, "expiry", "card has expired"},
		{"current month", func(f *PaymentForm) { f.Expiry = "02/24" }, "", ""},
		{"bad expiry format", func(f *PaymentForm) { f.Expiry = "13/30" }, "expiry", "expiry must be in MM/YY format"},
		{"four digit cvv", func(f *PaymentForm) { f.CVV = "1234" }, "", ""},
		{"short cvv", func(f *PaymentForm) { f.CVV = "12" }, "cvv", "CVV must have 3 or 4 digits"},
		{"missing email", func(f *PaymentForm) { f.Email = " " }, "email", "email is required"},
		{"invalid email", func(f *PaymentForm) { f.Email = "asha@" }, "email", "enter a valid email address"},
		{"short holder", func(f *PaymentForm) { f.CardHolder = "Al" }, "cardHolder", "card holder name must have at least 3 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			err := form.Validate(feb2024)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr ValidationErrors
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr, 1)
			assert.Equal(t, tt.field, verr[0].Field)
			assert.Equal(t, tt.msg, verr[0].Message)
		})
	}
}

func TestPaymentForm_AccumulatesErrorsInOrder(t *testing.T) {
	err := PaymentForm{CardNumber: "1", CVV: "x"}.Validate(testNow)

	var verr ValidationErrors
	require.ErrorAs(t, err, &verr)
	var fields []string
	for _, fe := range verr {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"email", "cardNumber", "cardHolder", "expiry", "cvv"}, fields)
	assert.Contains(t, err.Error(), "cardNumber: card number must have 16 digits")
}
