package core_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"stockbilling/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestDeriveItem(t *testing.T) {
	tests := []struct {
		name        string
		input       core.ItemInput
		wantErr     error
		wantTaxable string
		wantSGST    string
		wantCGST    string
		wantTotal   string
	}{
		{
			name:        "defaults taxable value and 6 percent rates",
			input:       core.ItemInput{Quantity: dec("10"), Rate: dec("125.50")},
			wantTaxable: "1255",
			wantSGST:    "75.30",
			wantCGST:    "75.30",
			wantTotal:   "1405.60",
		},
		{
			name: "explicit pre-discounted taxable value",
			input: core.ItemInput{
				Quantity:     dec("3"),
				Rate:         dec("100"),
				TaxableValue: decp("250.00"),
			},
			wantTaxable: "250",
			wantSGST:    "15",
			wantCGST:    "15",
			wantTotal:   "280",
		},
		{
			name: "per-line rates override the default",
			input: core.ItemInput{
				Quantity:       dec("1"),
				Rate:           dec("999.99"),
				SGSTPercentage: decp("9"),
				CGSTPercentage: decp("2.5"),
			},
			wantTaxable: "999.99",
			wantSGST:    "90.00",
			wantCGST:    "25.00",
			wantTotal:   "1114.99",
		},
		{
			name: "tax amounts rounded at compute time",
			input: core.ItemInput{
				Quantity:       dec("1"),
				Rate:           dec("33.33"),
				SGSTPercentage: decp("6"),
				CGSTPercentage: decp("6"),
			},
			// 33.33 * 0.06 = 1.9998 -> 2.00 per side
			wantTaxable: "33.33",
			wantSGST:    "2.00",
			wantCGST:    "2.00",
			wantTotal:   "37.33",
		},
		{
			name:    "zero quantity rejected",
			input:   core.ItemInput{Quantity: dec("0"), Rate: dec("10")},
			wantErr: core.ErrQuantityNotPositive,
		},
		{
			name:    "negative quantity rejected",
			input:   core.ItemInput{Quantity: dec("-2"), Rate: dec("10")},
			wantErr: core.ErrQuantityNotPositive,
		},
		{
			name:    "negative rate rejected",
			input:   core.ItemInput{Quantity: dec("1"), Rate: dec("-0.01")},
			wantErr: core.ErrRateNegative,
		},
		{
			name: "sgst percentage above 100 rejected",
			input: core.ItemInput{
				Quantity:       dec("1"),
				Rate:           dec("10"),
				SGSTPercentage: decp("100.01"),
			},
			wantErr: core.ErrTaxOutOfRange,
		},
		{
			name: "negative cgst percentage rejected",
			input: core.ItemInput{
				Quantity:       dec("1"),
				Rate:           dec("10"),
				CGSTPercentage: decp("-1"),
			},
			wantErr: core.ErrTaxOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := core.DeriveItem(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				var ve *core.ValidationError
				if !errors.As(err, &ve) || ve.Field == "" {
					t.Errorf("expected a ValidationError naming the field, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !item.TaxableValue.Equal(dec(tt.wantTaxable)) {
				t.Errorf("taxable = %s, want %s", item.TaxableValue, tt.wantTaxable)
			}
			if !item.SGSTAmount.Equal(dec(tt.wantSGST)) {
				t.Errorf("sgst = %s, want %s", item.SGSTAmount, tt.wantSGST)
			}
			if !item.CGSTAmount.Equal(dec(tt.wantCGST)) {
				t.Errorf("cgst = %s, want %s", item.CGSTAmount, tt.wantCGST)
			}
			if !item.Total.Equal(dec(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", item.Total, tt.wantTotal)
			}

			// Line invariant: total reconciles against its parts.
			sum := item.TaxableValue.Add(item.SGSTAmount).Add(item.CGSTAmount)
			if !item.Total.Equal(sum) {
				t.Errorf("invariant broken: total %s != taxable+sgst+cgst %s", item.Total, sum)
			}
		})
	}
}

func TestDeriveTotals(t *testing.T) {
	mustItem := func(in core.ItemInput) core.InvoiceItem {
		item, err := core.DeriveItem(in)
		if err != nil {
			t.Fatalf("DeriveItem: %v", err)
		}
		return item
	}

	items := []core.InvoiceItem{
		mustItem(core.ItemInput{Quantity: dec("10"), Rate: dec("125.50")}),
		mustItem(core.ItemInput{Quantity: dec("1"), Rate: dec("33.33")}),
		mustItem(core.ItemInput{Quantity: dec("7"), Rate: dec("99.95"), SGSTPercentage: decp("2.5"), CGSTPercentage: decp("2.5")}),
	}

	totals, err := core.DeriveTotals(items)
	if err != nil {
		t.Fatalf("DeriveTotals: %v", err)
	}

	// Component totals are exact sums of the per-item values.
	var subtotal, sgst, cgst decimal.Decimal
	for _, it := range items {
		subtotal = subtotal.Add(it.TaxableValue)
		sgst = sgst.Add(it.SGSTAmount)
		cgst = cgst.Add(it.CGSTAmount)
	}
	if !totals.Subtotal.Equal(subtotal) || !totals.SGSTTotal.Equal(sgst) || !totals.CGSTTotal.Equal(cgst) {
		t.Errorf("component totals differ from exact sums: %+v", totals)
	}

	// Total is a whole number and reconciles exactly through the round-off.
	if !totals.Total.Equal(totals.Total.Round(0)) {
		t.Errorf("total %s is not a whole number", totals.Total)
	}
	sum := totals.Subtotal.Add(totals.SGSTTotal).Add(totals.CGSTTotal)
	if !totals.RoundOff.Equal(totals.Total.Sub(sum)) {
		t.Errorf("roundOff %s != total - sum %s", totals.RoundOff, totals.Total.Sub(sum))
	}
	if totals.RoundOff.Abs().GreaterThan(dec("0.5")) {
		t.Errorf("roundOff %s outside [-0.5, 0.5]", totals.RoundOff)
	}
}

func TestDeriveTotalsRoundsHalfAwayFromZero(t *testing.T) {
	item, err := core.DeriveItem(core.ItemInput{
		Quantity:       dec("1"),
		Rate:           dec("100.50"),
		SGSTPercentage: decp("0"),
		CGSTPercentage: decp("0"),
	})
	if err != nil {
		t.Fatalf("DeriveItem: %v", err)
	}

	totals, err := core.DeriveTotals([]core.InvoiceItem{item})
	if err != nil {
		t.Fatalf("DeriveTotals: %v", err)
	}
	if !totals.Total.Equal(dec("101")) {
		t.Errorf("total = %s, want 101 (half rounds away from zero)", totals.Total)
	}
	if !totals.RoundOff.Equal(dec("0.5")) {
		t.Errorf("roundOff = %s, want 0.5", totals.RoundOff)
	}
}

func TestDeriveTotalsEmpty(t *testing.T) {
	_, err := core.DeriveTotals(nil)
	if !errors.Is(err, core.ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}
