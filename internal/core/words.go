package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Indian-numbering amount-to-words conversion for the legal amount line on
// tax invoices: crore (10^7), lakh (10^5), thousand, hundred, then a
// sub-100 table with a teens short-circuit.

var onesWords = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords renders a non-negative currency amount as its English legal
// representation, e.g. 1234567.89 becomes "Twelve Lakh Thirty Four Thousand
// Five Hundred Sixty Seven Rupees and Eighty Nine Paise Only". Zero is
// exactly "Zero Rupees Only". Negative amounts are the caller's guard; the
// sign is ignored.
func AmountInWords(amount decimal.Decimal) string {
	// Work in whole paise so fraction rounding is settled once up front.
	totalPaise := amount.Abs().Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	rupees := totalPaise / 100
	paise := totalPaise % 100

	var b strings.Builder
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(integerWords(rupees))
	}
	b.WriteString(" Rupees")
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(integerWords(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// integerWords decomposes n (> 0) into crore/lakh/thousand/remainder buckets
// and joins the non-zero buckets with their scale word in descending order.
func integerWords(n int64) string {
	var parts []string
	appendBucket := func(v int64, scale string) {
		if v == 0 {
			return
		}
		w := belowThousand(v)
		if scale != "" {
			w += " " + scale
		}
		parts = append(parts, w)
	}

	// The crore count itself can exceed 999 (2000 crore and up), so it
	// recurses through the full decomposition rather than belowThousand.
	if crore := n / 1e7; crore > 0 {
		parts = append(parts, integerWords(crore)+" Crore")
	}
	n %= 1e7
	appendBucket(n/1e5, "Lakh")
	n %= 1e5
	appendBucket(n/1e3, "Thousand")
	n %= 1e3
	appendBucket(n, "")

	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, onesWords[n/100], "Hundred")
		n %= 100
	}
	switch {
	case n == 0:
	case n < 20:
		// Teens come from the table whole, never as tens + ones.
		parts = append(parts, onesWords[n])
	default:
		w := tensWords[n/10]
		if n%10 != 0 {
			w += " " + onesWords[n%10]
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, " ")
}
