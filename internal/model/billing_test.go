package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMethod(t *testing.T) {
	cases := []struct {
		in   string
		want PaymentMethod
	}{
		{"CARD", PaymentMethodCard},
		{"card", PaymentMethodCard},
		{"  Card  ", PaymentMethodCard},
		{"PAYPAL", PaymentMethodPaypal},
		{"paypal", PaymentMethodPaypal},
		{"OTHER", PaymentMethodOther},
		{"apple_pay", PaymentMethodOther},
		{"", PaymentMethodOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParsePaymentMethod(tc.in), "input %q", tc.in)
	}
}
