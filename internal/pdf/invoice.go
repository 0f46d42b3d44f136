package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"stockbilling/internal/core"
)

// Invoice page geometry (A4, points). The content area spans x 30..565.
const (
	pageLeft    = 30.0
	pageRight   = 565.0
	contentW    = pageRight - pageLeft
	dateLayout  = "02/01/2006"
	baseFont    = "Helvetica"
	textSize    = 9.0
	labelSize   = 8.0
	headingSize = 14.0
)

// itemColumns is the fixed 8-column grid of the items table. Offsets are
// hand-tuned for the printed form; widths sum to the content width.
var itemColumns = []tableColumn{
	{x: 30, width: 30, title: "Sr.", align: alignCenter},
	{x: 60, width: 170, title: "Description of Goods", align: alignLeft},
	{x: 230, width: 60, title: "Roll No.", align: alignCenter},
	{x: 290, width: 50, title: "Qty", align: alignRight},
	{x: 340, width: 55, title: "Rate", align: alignRight},
	{x: 395, width: 45, title: "SGST %", align: alignCenter},
	{x: 440, width: 45, title: "CGST %", align: alignCenter},
	{x: 485, width: 80, title: "Amount", align: alignRight},
}

// fixedCreationDate pins the PDF metadata timestamp so the same invoice
// always renders to the same bytes.
var fixedCreationDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func newDocument() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(fixedCreationDate)
	pdf.SetModificationDate(fixedCreationDate)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont(baseFont, "", textSize)
	return pdf
}

func output(pdf *gofpdf.Fpdf, doc string) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Doc: doc, Err: err}
	}
	return buf.Bytes(), nil
}

// InvoiceFilename is the suggested download filename for an invoice PDF.
func InvoiceFilename(inv *core.Invoice) string {
	return fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber)
}

// RenderInvoice lays out a tax invoice for the given invoice, customer, and
// issuing organization. Customer may be nil; missing fields render as empty
// strings, the engine never fails on partial data. The output is
// deterministic: the same inputs produce byte-identical PDFs.
func RenderInvoice(inv *core.Invoice, customer *core.Customer, org core.Organization) ([]byte, error) {
	pdf := newDocument()

	// Title.
	pdf.SetFont(baseFont, "B", headingSize)
	title := "TAX INVOICE"
	pdf.Text(pageLeft+contentW/2-pdf.GetStringWidth(title)/2, 40, title)

	drawCompanyBlock(pdf, org)
	drawPartyBlock(pdf, inv, customer)

	tableBottom := drawItemsTable(pdf, inv.Items)
	totalsBottom := drawTotalsBlock(pdf, inv, tableBottom)
	banksBottom := drawBankBlock(pdf, org, totalsBottom)
	drawFooterBlock(pdf, org, banksBottom)

	return output(pdf, "invoice "+inv.InvoiceNumber)
}

// drawCompanyBlock paints the issuing organization header box, y 50..120.
func drawCompanyBlock(pdf *gofpdf.Fpdf, org core.Organization) {
	pdf.Rect(pageLeft, 50, contentW, 70, "D")

	pdf.SetFont(baseFont, "B", 13)
	pdf.Text(pageLeft+contentW/2-pdf.GetStringWidth(org.Name)/2, 68, org.Name)

	pdf.SetFont(baseFont, "", textSize)
	centered := func(y float64, text string) {
		pdf.Text(pageLeft+contentW/2-pdf.GetStringWidth(text)/2, y, text)
	}
	centered(82, org.Address)
	contact := strings.TrimSpace(strings.Trim(fmt.Sprintf("Phone: %s  Mobile: %s  Email: %s", org.Phone, org.Mobile, org.Email), " "))
	centered(95, contact)
	centered(108, fmt.Sprintf("GSTIN: %s    PAN: %s", org.GSTNumber, org.PAN))
}

// drawPartyBlock paints the two-column consignee / invoice-meta box,
// y 120..250. Left half is the bill-to party, right half the invoice and
// shipping metadata.
func drawPartyBlock(pdf *gofpdf.Fpdf, inv *core.Invoice, customer *core.Customer) {
	const top, bottom = 120.0, 250.0
	mid := pageLeft + contentW/2
	pdf.Rect(pageLeft, top, contentW, bottom-top, "D")
	pdf.Line(mid, top, mid, bottom)

	pdf.SetFont(baseFont, "B", labelSize)
	pdf.Text(pageLeft+cellPadding, top+13, "Billed To / Consignee")

	pdf.SetFont(baseFont, "", textSize)
	y := top + 28.0
	line := func(text string) {
		if text == "" {
			return
		}
		pdf.Text(pageLeft+cellPadding, y, text)
		y += 13
	}
	if customer != nil {
		pdf.SetFont(baseFont, "B", textSize)
		line(customer.Name)
		pdf.SetFont(baseFont, "", textSize)
		line(customer.CompanyName)
		line(customer.Address.Street)
		cityLine := strings.TrimSpace(fmt.Sprintf("%s, %s %s", customer.Address.City, customer.Address.State, customer.Address.ZipCode))
		if cityLine != "," {
			line(cityLine)
		}
		line(customer.Address.Country)
		if customer.GSTNumber != "" {
			line("GSTIN: " + customer.GSTNumber)
		}
		line(customer.Phone)
	}

	// Right column: label/value pairs.
	metaY := top + 13.0
	meta := func(label, value string) {
		pdf.SetFont(baseFont, "B", labelSize)
		pdf.Text(mid+cellPadding, metaY, label)
		pdf.SetFont(baseFont, "", textSize)
		pdf.Text(mid+105, metaY, value)
		metaY += 13
	}
	meta("Invoice No.", inv.InvoiceNumber)
	meta("Invoice Date", inv.InvoiceDate.Format(dateLayout))
	meta("Due Date", inv.DueDate.Format(dateLayout))
	meta("P.O. No. / Date", joinNoDate(inv.PONo, inv.PODate))
	meta("Challan No. / Date", joinNoDate(inv.ChallanNo, inv.ChallanDate))
	meta("L.R. No. / Date", joinNoDate(inv.LRNo, inv.LRDate))
	meta("E-Way Bill No. / Date", joinNoDate(inv.EwayBillNo, inv.EwayBillDate))
	meta("Vehicle No.", inv.VehicleNo)
	meta("Transport", inv.TransportName)
}

func joinNoDate(no string, date *time.Time) string {
	if date == nil {
		return no
	}
	if no == "" {
		return date.Format(dateLayout)
	}
	return no + " / " + date.Format(dateLayout)
}

// drawItemsTable paints the bordered items grid starting at y 250 and
// returns the y of the table's bottom edge. Row budgeting follows the
// pad-and-grow policy: fewer than minVisualRows items pad with empty rows,
// more grow the table one rowHeight per item.
func drawItemsTable(pdf *gofpdf.Fpdf, items []core.InvoiceItem) float64 {
	const top = 250.0
	const headerH = 20.0
	rows := visualRowCount(len(items))
	bottom := top + headerH + float64(rows)*rowHeight

	// Header row.
	pdf.Rect(pageLeft, top, contentW, headerH, "D")
	pdf.SetFont(baseFont, "B", labelSize)
	for _, col := range itemColumns {
		w := pdf.GetStringWidth(col.title)
		pdf.Text(col.x+col.width/2-w/2, top+13, col.title)
	}

	// Column borders span the full grid.
	for _, col := range itemColumns[1:] {
		pdf.Line(col.x, top, col.x, bottom)
	}
	pdf.Rect(pageLeft, top+headerH, contentW, bottom-top-headerH, "D")

	pdf.SetFont(baseFont, "", textSize)
	for i, item := range items {
		y := top + headerH + float64(i)*rowHeight + 13
		cellText(pdf, itemColumns[0], y, fmt.Sprintf("%d", i+1))
		cellText(pdf, itemColumns[1], y, item.Name)
		cellText(pdf, itemColumns[2], y, item.RollNo)
		cellText(pdf, itemColumns[3], y, item.Quantity.String())
		cellText(pdf, itemColumns[4], y, money(item.Rate))
		cellText(pdf, itemColumns[5], y, item.SGSTPercentage.String())
		cellText(pdf, itemColumns[6], y, item.CGSTPercentage.String())
		cellText(pdf, itemColumns[7], y, money(item.Total))
	}
	// Row separators, drawn for padded rows too so the empty rows stay
	// usable for handwritten notes.
	for r := 1; r < rows; r++ {
		y := top + headerH + float64(r)*rowHeight
		pdf.Line(pageLeft, y, pageRight, y)
	}
	return bottom
}

// taxRateLabel lists the distinct percentages applied on one side of the
// split, e.g. "6%" or "6%, 9%" when lines carry different rates.
func taxRateLabel(items []core.InvoiceItem, pick func(core.InvoiceItem) decimal.Decimal) string {
	var rates []string
	seen := map[string]bool{}
	for _, item := range items {
		r := pick(item).String() + "%"
		if !seen[r] {
			seen[r] = true
			rates = append(rates, r)
		}
	}
	return strings.Join(rates, ", ")
}

// drawTotalsBlock paints the amount-in-words box (left) and the totals
// column (right) beneath the items table; returns its bottom edge.
func drawTotalsBlock(pdf *gofpdf.Fpdf, inv *core.Invoice, top float64) float64 {
	const h = 100.0
	bottom := top + h
	mid := pageLeft + contentW*0.55
	pdf.Rect(pageLeft, top, contentW, h, "D")
	pdf.Line(mid, top, mid, bottom)

	// Right: totals ladder. Amounts right-align against the box edge.
	row := func(y float64, label, value string) {
		pdf.Text(mid+cellPadding, y, label)
		w := pdf.GetStringWidth(value)
		pdf.Text(pageRight-cellPadding-w, y, value)
	}
	pdf.SetFont(baseFont, "", textSize)
	row(top+15, "Taxable Value", money(inv.Subtotal))
	row(top+30, "SGST @ "+taxRateLabel(inv.Items, func(i core.InvoiceItem) decimal.Decimal { return i.SGSTPercentage }), money(inv.SGSTTotal))
	row(top+45, "CGST @ "+taxRateLabel(inv.Items, func(i core.InvoiceItem) decimal.Decimal { return i.CGSTPercentage }), money(inv.CGSTTotal))
	row(top+60, "Round Off", money(inv.RoundOff))
	pdf.Line(mid, top+70, pageRight, top+70)
	pdf.SetFont(baseFont, "B", 11)
	row(top+87, "Net Amount", money(inv.Total))

	// Left: amount in words.
	pdf.SetFont(baseFont, "B", labelSize)
	pdf.Text(pageLeft+cellPadding, top+15, "Amount in Words")
	pdf.SetFont(baseFont, "", textSize)
	words := core.AmountInWords(inv.Total)
	for i, ln := range wrapText(pdf, words, mid-pageLeft-2*cellPadding) {
		pdf.Text(pageLeft+cellPadding, top+30+float64(i)*13, ln)
	}
	return bottom
}

// wrapText greedily wraps words to fit maxWidth at the current font.
func wrapText(pdf *gofpdf.Fpdf, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if pdf.GetStringWidth(candidate) > maxWidth {
			lines = append(lines, current)
			current = w
		} else {
			current = candidate
		}
	}
	return append(lines, current)
}

// drawBankBlock paints the organization's bank accounts; returns its bottom.
func drawBankBlock(pdf *gofpdf.Fpdf, org core.Organization, top float64) float64 {
	const h = 70.0
	pdf.Rect(pageLeft, top, contentW, h, "D")
	pdf.SetFont(baseFont, "B", labelSize)
	pdf.Text(pageLeft+cellPadding, top+13, "Bank Details")

	pdf.SetFont(baseFont, "", textSize)
	// Two accounts side by side; further accounts are not printed.
	banks := org.Banks
	if len(banks) > 2 {
		banks = banks[:2]
	}
	colW := contentW / 2
	for i, bank := range banks {
		x := pageLeft + float64(i)*colW + cellPadding
		pdf.Text(x, top+28, bank.BankName+", "+bank.Branch)
		pdf.Text(x, top+41, "A/C No: "+bank.AccountNo)
		pdf.Text(x, top+54, "IFSC: "+bank.IFSC)
	}
	return top + h
}

// drawFooterBlock paints terms and the signature box.
func drawFooterBlock(pdf *gofpdf.Fpdf, org core.Organization, top float64) {
	const h = 80.0
	mid := pageLeft + contentW*0.55
	pdf.Rect(pageLeft, top, contentW, h, "D")
	pdf.Line(mid, top, mid, top+h)

	pdf.SetFont(baseFont, "B", labelSize)
	pdf.Text(pageLeft+cellPadding, top+13, "Terms & Conditions")
	pdf.SetFont(baseFont, "", labelSize)
	terms := []string{
		"1. Goods once sold will not be taken back.",
		"2. Interest @18% p.a. will be charged on overdue bills.",
		"3. Subject to local jurisdiction.",
	}
	for i, t := range terms {
		pdf.Text(pageLeft+cellPadding, top+27+float64(i)*12, t)
	}

	pdf.SetFont(baseFont, "B", textSize)
	forLine := "For " + org.Name
	pdf.Text(mid+cellPadding, top+15, forLine)
	pdf.SetFont(baseFont, "", labelSize)
	sig := "Authorised Signatory"
	pdf.Text(pageRight-cellPadding-pdf.GetStringWidth(sig), top+h-10, sig)
}
