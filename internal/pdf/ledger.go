package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"stockbilling/internal/core"
)

// Ledger page geometry: a single fixed 600x800pt page. The statement stays
// single-page; transactions that do not fit are truncated behind an explicit
// marker line.
const (
	ledgerW      = 600.0
	ledgerH      = 800.0
	ledgerLeft   = 50.0
	ledgerBottom = ledgerH - 50.0
	ledgerRowH   = 20.0
)

var ledgerColumns = []tableColumn{
	{x: 50, width: 100, title: "Invoice No.", align: alignLeft},
	{x: 150, width: 100, title: "Date", align: alignLeft},
	{x: 250, width: 150, title: "Status", align: alignLeft},
	{x: 400, width: 150, title: "Amount", align: alignRight},
}

// LedgerFilename is the suggested download filename for a ledger statement,
// stamped with the generation date.
func LedgerFilename(customer *core.Customer, generatedAt time.Time) string {
	return fmt.Sprintf("ledger-%s-%s.pdf", customer.Name, generatedAt.Format("2006-01-02"))
}

// RenderLedger lays out a customer ledger statement: party header, optional
// period line, paid/pending summary, then the transaction table newest-first.
// Rows that would run past the bottom of the page are dropped and a single
// truncation marker is printed instead.
func RenderLedger(customer *core.Customer, transactions []core.Invoice, summary core.LedgerSummary, from, to *time.Time) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: ledgerW, Ht: ledgerH},
	})
	pdf.SetCreationDate(fixedCreationDate)
	pdf.SetModificationDate(fixedCreationDate)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont(baseFont, "B", 16)
	title := "Customer Ledger"
	pdf.Text(ledgerW/2-pdf.GetStringWidth(title)/2, 50, title)

	pdf.SetFont(baseFont, "", 10)
	y := 80.0
	line := func(text string) {
		pdf.Text(ledgerLeft, y, text)
		y += ledgerRowH
	}

	line("Customer: " + customer.Name)
	line("Company: " + customer.CompanyName)
	line("GST Number: " + customer.GSTNumber)
	y += 10

	if from != nil || to != nil {
		line("Period: " + periodLabel(from, to))
		y += 10
	}

	pdf.SetFont(baseFont, "B", 12)
	line("Summary")
	pdf.SetFont(baseFont, "", 10)
	line(fmt.Sprintf("Total Invoices: %d", summary.TotalInvoices))
	line("Total Amount: " + money(summary.TotalAmount))
	line("Paid Amount: " + money(summary.PaidAmount))
	line("Pending Amount: " + money(summary.PendingAmount))
	y += 10

	pdf.SetFont(baseFont, "B", 9)
	for _, col := range ledgerColumns {
		cellText(pdf, col, y, col.title)
	}
	y += ledgerRowH

	pdf.SetFont(baseFont, "", 9)
	for _, tx := range transactions {
		if y > ledgerBottom {
			pdf.Text(ledgerLeft, y, "(More transactions not displayed due to space)")
			break
		}
		cellText(pdf, ledgerColumns[0], y, tx.InvoiceNumber)
		cellText(pdf, ledgerColumns[1], y, tx.CreatedAt.Format(dateLayout))
		cellText(pdf, ledgerColumns[2], y, titleCase(string(tx.Status)))
		cellText(pdf, ledgerColumns[3], y, money(tx.Total))
		y += ledgerRowH
	}

	return output(pdf, "ledger for "+customer.Name)
}

func periodLabel(from, to *time.Time) string {
	start, end := "Start", "End"
	if from != nil {
		start = from.Format(dateLayout)
	}
	if to != nil {
		end = to.Format(dateLayout)
	}
	return start + " to " + end
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
