package core

import "github.com/shopspring/decimal"

// DefaultGSTRate is the per-line SGST and CGST percentage applied when the
// caller does not supply one. It is an explicit parameter default, not a
// persistence-layer default.
var DefaultGSTRate = decimal.NewFromInt(6)

var oneHundred = decimal.NewFromInt(100)

// ItemInput is the raw material for one invoice line. TaxableValue and the
// two percentages are optional: a nil TaxableValue derives Quantity × Rate
// (a non-nil one supports pre-discounted values), a nil percentage takes
// DefaultGSTRate.
type ItemInput struct {
	ProductID      int
	Name           string
	RollNo         string
	Quantity       decimal.Decimal
	Weight         decimal.Decimal
	Rate           decimal.Decimal
	TaxableValue   *decimal.Decimal
	SGSTPercentage *decimal.Decimal
	CGSTPercentage *decimal.Decimal
}

// InvoiceTotals are the document-level financial fields derived from a full
// item list.
type InvoiceTotals struct {
	Subtotal  decimal.Decimal
	SGSTTotal decimal.Decimal
	CGSTTotal decimal.Decimal
	RoundOff  decimal.Decimal
	Total     decimal.Decimal
}

// DeriveItem computes every derived financial field of one invoice line.
// Tax amounts are rounded to 2 decimal places at compute time so rounding
// error cannot compound across lines into the document totals. On any
// constraint violation it returns a *ValidationError naming the field and
// no partial item.
func DeriveItem(in ItemInput) (InvoiceItem, error) {
	if !in.Quantity.IsPositive() {
		return InvoiceItem{}, &ValidationError{Field: "quantity", Err: ErrQuantityNotPositive}
	}
	if in.Rate.IsNegative() {
		return InvoiceItem{}, &ValidationError{Field: "rate", Err: ErrRateNegative}
	}

	sgstPct := DefaultGSTRate
	if in.SGSTPercentage != nil {
		sgstPct = *in.SGSTPercentage
	}
	cgstPct := DefaultGSTRate
	if in.CGSTPercentage != nil {
		cgstPct = *in.CGSTPercentage
	}
	if sgstPct.IsNegative() || sgstPct.GreaterThan(oneHundred) {
		return InvoiceItem{}, &ValidationError{Field: "sgstPercentage", Err: ErrTaxOutOfRange}
	}
	if cgstPct.IsNegative() || cgstPct.GreaterThan(oneHundred) {
		return InvoiceItem{}, &ValidationError{Field: "cgstPercentage", Err: ErrTaxOutOfRange}
	}

	taxable := in.Quantity.Mul(in.Rate)
	if in.TaxableValue != nil {
		taxable = *in.TaxableValue
	}
	if taxable.IsNegative() {
		return InvoiceItem{}, &ValidationError{Field: "taxableValue", Err: ErrTaxableNegative}
	}

	// decimal.Round rounds half away from zero.
	sgstAmount := taxable.Mul(sgstPct).Div(oneHundred).Round(2)
	cgstAmount := taxable.Mul(cgstPct).Div(oneHundred).Round(2)

	return InvoiceItem{
		ProductID:      in.ProductID,
		Name:           in.Name,
		RollNo:         in.RollNo,
		Quantity:       in.Quantity,
		Weight:         in.Weight,
		Rate:           in.Rate,
		TaxableValue:   taxable,
		SGSTPercentage: sgstPct,
		SGSTAmount:     sgstAmount,
		CGSTPercentage: cgstPct,
		CGSTAmount:     cgstAmount,
		Total:          taxable.Add(sgstAmount).Add(cgstAmount),
	}, nil
}

// DeriveTotals sums fully-derived items into document totals. The three
// component totals are exact sums (never re-rounded); Total is the sum
// rounded half away from zero to a whole rupee, and RoundOff is whatever
// difference that rounding introduced (possibly negative). The stated total
// therefore always reconciles exactly against the displayed round-off line,
// which GST invoices require.
func DeriveTotals(items []InvoiceItem) (InvoiceTotals, error) {
	if len(items) == 0 {
		return InvoiceTotals{}, &ValidationError{Field: "items", Err: ErrNoItems}
	}

	var subtotal, sgstTotal, cgstTotal decimal.Decimal
	for _, it := range items {
		subtotal = subtotal.Add(it.TaxableValue)
		sgstTotal = sgstTotal.Add(it.SGSTAmount)
		cgstTotal = cgstTotal.Add(it.CGSTAmount)
	}

	sum := subtotal.Add(sgstTotal).Add(cgstTotal)
	total := sum.Round(0)

	return InvoiceTotals{
		Subtotal:  subtotal,
		SGSTTotal: sgstTotal,
		CGSTTotal: cgstTotal,
		RoundOff:  total.Sub(sum),
		Total:     total,
	}, nil
}
