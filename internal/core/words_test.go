package core_test

import (
	"testing"

	"stockbilling/internal/core"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "Zero Rupees Only"},
		{"1", "One Rupees Only"},
		{"10", "Ten Rupees Only"},
		{"15", "Fifteen Rupees Only"},
		{"19", "Nineteen Rupees Only"},
		{"20", "Twenty Rupees Only"},
		{"21", "Twenty One Rupees Only"},
		{"100", "One Hundred Rupees Only"},
		{"115", "One Hundred Fifteen Rupees Only"},
		{"999", "Nine Hundred Ninety Nine Rupees Only"},
		{"1000", "One Thousand Rupees Only"},
		{"1018", "One Thousand Eighteen Rupees Only"},
		{"100000", "One Lakh Rupees Only"},
		{"10000000", "One Crore Rupees Only"},
		{"10000018", "One Crore Eighteen Rupees Only"},
		{"99999999", "Nine Crore Ninety Nine Lakh Ninety Nine Thousand Nine Hundred Ninety Nine Rupees Only"},
		// Crore counts past 999 decompose through the full scale chain
		// instead of a bare hundreds reading.
		{"10000000000", "One Thousand Crore Rupees Only"},
		{"20000000000", "Two Thousand Crore Rupees Only"},
		{"12345678900000", "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Crore Eighty Nine Lakh Rupees Only"},
		{"1234567.89", "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and Eighty Nine Paise Only"},
		{"0.50", "Zero Rupees and Fifty Paise Only"},
		{"0.05", "Zero Rupees and Five Paise Only"},
		{"12.15", "Twelve Rupees and Fifteen Paise Only"},
		// Paise round half away from zero and may carry into rupees.
		{"1.996", "Two Rupees Only"},
		{"1.005", "One Rupees and One Paise Only"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := core.AmountInWords(dec(tt.amount))
			if got != tt.want {
				t.Errorf("AmountInWords(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}
