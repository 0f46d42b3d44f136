// Package pdf renders invoices and customer ledger statements as
// deterministic PDF documents. All geometry is absolute: pages are laid out
// as a fixed sequence of bordered boxes at hand-tuned offsets, the way a
// printed business form is.
package pdf

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// RenderError reports a failure inside the layout engine (font or resource
// problems surfaced by the underlying document builder).
type RenderError struct {
	Doc string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s: %v", e.Doc, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

const (
	// cellPadding is the inset from a column border to its text: left-aligned
	// text starts at x+cellPadding, right-aligned text ends at x+w-cellPadding.
	cellPadding = 5.0

	// minVisualRows is the minimum number of item rows the invoice table
	// shows. Short invoices are padded with empty bordered rows so the
	// printed form keeps a fixed table height.
	minVisualRows = 10

	rowHeight = 18.0
)

type alignment int

const (
	alignLeft alignment = iota
	alignCenter
	alignRight
)

// tableColumn is one column of the items grid at an absolute x offset.
type tableColumn struct {
	x     float64
	width float64
	title string
	align alignment
}

// visualRowCount applies the pad-and-grow policy: at least minVisualRows,
// otherwise exactly one row per item.
func visualRowCount(itemCount int) int {
	if itemCount < minVisualRows {
		return minVisualRows
	}
	return itemCount
}

// textStartX computes where a cell's text begins under the column's
// alignment rule, measuring the rendered string width so right and center
// alignment hold for any glyphs.
func textStartX(pdf *gofpdf.Fpdf, col tableColumn, text string) float64 {
	switch col.align {
	case alignRight:
		return col.x + col.width - cellPadding - pdf.GetStringWidth(text)
	case alignCenter:
		return col.x + col.width/2 - pdf.GetStringWidth(text)/2
	default:
		return col.x + cellPadding
	}
}

// cellText places text in a column according to its alignment rule.
func cellText(pdf *gofpdf.Fpdf, col tableColumn, y float64, text string) {
	pdf.Text(textStartX(pdf, col, text), y, text)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
