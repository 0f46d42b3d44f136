package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
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

func sampleItem(n int) core.InvoiceItem {
	return core.InvoiceItem{
		LineNumber:     n,
		ProductID:      n,
		Name:           fmt.Sprintf("Kraft Paper %d", n),
		RollNo:         fmt.Sprintf("R-%d", 100+n),
		Quantity:       dec("10"),
		Rate:           dec("125.50"),
		TaxableValue:   dec("1255.00"),
		SGSTPercentage: dec("6"),
		SGSTAmount:     dec("75.30"),
		CGSTPercentage: dec("6"),
		CGSTAmount:     dec("75.30"),
		Total:          dec("1405.60"),
	}
}

func sampleInvoice(itemCount int) *core.Invoice {
	items := make([]core.InvoiceItem, 0, itemCount)
	for i := 1; i <= itemCount; i++ {
		items = append(items, sampleItem(i))
	}
	return &core.Invoice{
		ID:            1,
		InvoiceNumber: "INV-20260315-001",
		InvoiceDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Sharma Traders",
		Items:         items,
		Subtotal:      dec("1255.00"),
		SGSTTotal:     dec("75.30"),
		CGSTTotal:     dec("75.30"),
		RoundOff:      dec("0.40"),
		Total:         dec("1406"),
		Status:        core.InvoiceStatusPending,
		CreatedAt:     time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func sampleCustomer() *core.Customer {
	return &core.Customer{
		ID:          1,
		Name:        "Sharma Traders",
		CompanyName: "Sharma Trading Co",
		GSTNumber:   "27BBBBB0000B1Z5",
		Phone:       "9811111111",
		Address: core.Address{
			Street:  "4 Market Lane",
			City:    "Mumbai",
			State:   "Maharashtra",
			ZipCode: "400001",
			Country: "India",
		},
	}
}

func sampleOrg() core.Organization {
	return core.Organization{
		Name:      "Test Papers Pvt Ltd",
		Address:   "12 Mill Road, Pune",
		Phone:     "020-1234567",
		Mobile:    "9800000000",
		Email:     "billing@testpapers.example",
		GSTNumber: "27AAAAA0000A1Z5",
		PAN:       "AAAAA0000A",
		Banks: []core.BankAccount{
			{BankName: "State Bank of India", Branch: "Pune Camp", AccountNo: "00000012345", IFSC: "SBIN0000300"},
			{BankName: "HDFC Bank", Branch: "Deccan", AccountNo: "50100098765", IFSC: "HDFC0000042"},
		},
	}
}

func TestVisualRowCount(t *testing.T) {
	tests := []struct {
		items, want int
	}{
		{0, 10},
		{3, 10},
		{9, 10},
		{10, 10},
		{11, 11},
		{15, 15},
	}
	for _, tt := range tests {
		if got := visualRowCount(tt.items); got != tt.want {
			t.Errorf("visualRowCount(%d) = %d, want %d", tt.items, got, tt.want)
		}
	}
}

func TestTextStartXAlignment(t *testing.T) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)

	col := tableColumn{x: 485, width: 80, align: alignRight}
	for _, text := range []string{"5.00", "1405.60", "12,34,567.89"} {
		start := textStartX(pdf, col, text)
		rightEdge := start + pdf.GetStringWidth(text)
		want := col.x + col.width - cellPadding
		if math.Abs(rightEdge-want) > 0.001 {
			t.Errorf("right edge for %q = %.3f, want %.3f", text, rightEdge, want)
		}
	}

	center := tableColumn{x: 230, width: 60, align: alignCenter}
	text := "R-101"
	start := textStartX(pdf, center, text)
	mid := start + pdf.GetStringWidth(text)/2
	if math.Abs(mid-(center.x+center.width/2)) > 0.001 {
		t.Errorf("center for %q = %.3f, want %.3f", text, mid, center.x+center.width/2)
	}

	left := tableColumn{x: 60, width: 170, align: alignLeft}
	if got := textStartX(pdf, left, "anything"); got != left.x+cellPadding {
		t.Errorf("left start = %.3f, want %.3f", got, left.x+cellPadding)
	}
}

func TestRenderInvoiceDeterministic(t *testing.T) {
	inv := sampleInvoice(3)
	cust := sampleCustomer()
	org := sampleOrg()

	first, err := RenderInvoice(inv, cust, org)
	if err != nil {
		t.Fatalf("RenderInvoice failed: %v", err)
	}
	second, err := RenderInvoice(inv, cust, org)
	if err != nil {
		t.Fatalf("Second RenderInvoice failed: %v", err)
	}

	if !bytes.HasPrefix(first, []byte("%PDF-")) {
		t.Error("Output does not start with a PDF header")
	}
	if !bytes.Equal(first, second) {
		t.Error("Rendering the same invoice twice produced different bytes")
	}
}

func TestRenderInvoiceGrowsWithItems(t *testing.T) {
	cust := sampleCustomer()
	org := sampleOrg()

	short, err := RenderInvoice(sampleInvoice(3), cust, org)
	if err != nil {
		t.Fatalf("RenderInvoice(3 items) failed: %v", err)
	}
	long, err := RenderInvoice(sampleInvoice(15), cust, org)
	if err != nil {
		t.Fatalf("RenderInvoice(15 items) failed: %v", err)
	}
	if len(long) <= len(short) {
		t.Errorf("Expected 15-item invoice to carry more content than 3-item one (%d vs %d bytes)", len(long), len(short))
	}
}

func TestRenderInvoiceNilCustomer(t *testing.T) {
	// Partial data renders as blanks rather than failing.
	out, err := RenderInvoice(sampleInvoice(1), nil, sampleOrg())
	if err != nil {
		t.Fatalf("RenderInvoice with nil customer failed: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Expected PDF bytes, got none")
	}
}

func TestRenderLedger(t *testing.T) {
	cust := sampleCustomer()
	var transactions []core.Invoice
	for i := 0; i < 60; i++ {
		inv := sampleInvoice(1)
		inv.InvoiceNumber = fmt.Sprintf("INV-20260315-%03d", i+1)
		transactions = append(transactions, *inv)
	}
	summary := core.LedgerSummary{
		TotalInvoices: 60,
		TotalAmount:   dec("84360"),
		PaidAmount:    dec("0"),
		PendingAmount: dec("84360"),
	}

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := RenderLedger(cust, transactions, summary, &from, nil)
	if err != nil {
		t.Fatalf("RenderLedger failed: %v", err)
	}
	second, err := RenderLedger(cust, transactions, summary, &from, nil)
	if err != nil {
		t.Fatalf("Second RenderLedger failed: %v", err)
	}
	if !bytes.HasPrefix(first, []byte("%PDF-")) {
		t.Error("Output does not start with a PDF header")
	}
	if !bytes.Equal(first, second) {
		t.Error("Rendering the same ledger twice produced different bytes")
	}
}

func TestWrapText(t *testing.T) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)

	text := "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and Eighty Nine Paise Only"
	const maxWidth = 120.0
	lines := wrapText(pdf, text, maxWidth)
	if len(lines) < 2 {
		t.Fatalf("Expected wrapping into multiple lines, got %d", len(lines))
	}
	for _, ln := range lines {
		if pdf.GetStringWidth(ln) > maxWidth {
			t.Errorf("Line %q exceeds max width", ln)
		}
	}
	if strings.Join(lines, " ") != text {
		t.Errorf("Wrapping lost content: %q", strings.Join(lines, " "))
	}
}

func TestFilenames(t *testing.T) {
	inv := sampleInvoice(1)
	if got := InvoiceFilename(inv); got != "invoice-INV-20260315-001.pdf" {
		t.Errorf("InvoiceFilename = %q", got)
	}
	at := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	if got := LedgerFilename(sampleCustomer(), at); got != "ledger-Sharma Traders-2026-03-20.pdf" {
		t.Errorf("LedgerFilename = %q", got)
	}
}

func TestTaxRateLabel(t *testing.T) {
	items := []core.InvoiceItem{
		{SGSTPercentage: dec("6"), CGSTPercentage: dec("6")},
		{SGSTPercentage: dec("9"), CGSTPercentage: dec("6")},
		{SGSTPercentage: dec("6"), CGSTPercentage: dec("6")},
	}
	sgst := taxRateLabel(items, func(i core.InvoiceItem) decimal.Decimal { return i.SGSTPercentage })
	if sgst != "6%, 9%" {
		t.Errorf("SGST label = %q, want %q", sgst, "6%, 9%")
	}
	cgst := taxRateLabel(items, func(i core.InvoiceItem) decimal.Decimal { return i.CGSTPercentage })
	if cgst != "6%" {
		t.Errorf("CGST label = %q, want %q", cgst, "6%")
	}
}
