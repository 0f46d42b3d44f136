package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvoiceService owns the invoice lifecycle. Creation derives every
// financial field server-side, allocates the day's next invoice number, and
// decrements product stock — all inside one transaction.
type InvoiceService interface {
	Create(ctx context.Context, orgID int, in CreateInvoiceInput) (*Invoice, error)
	List(ctx context.Context, orgID int) ([]Invoice, error)
	ListByCustomer(ctx context.Context, orgID, customerID int) ([]Invoice, error)
	Get(ctx context.Context, orgID, invoiceID int) (*Invoice, error)
	// UpdateStatus transitions pending → paid | cancelled. Paid and
	// cancelled are terminal; any other transition is ErrInvalidTransition.
	UpdateStatus(ctx context.Context, orgID, invoiceID int, status InvoiceStatus) (*Invoice, error)
	// Ledger returns a customer's invoices (newest first) within an optional
	// date range, plus the paid/pending summary.
	Ledger(ctx context.Context, orgID, customerID int, from, to *time.Time) ([]Invoice, LedgerSummary, error)
}

type CreateInvoiceInput struct {
	CustomerID    int
	InvoiceDate   time.Time
	DueDate       time.Time
	PaymentTerms  int
	VehicleNo     string
	TransportName string
	LRNo          string
	LRDate        *time.Time
	EwayBillNo    string
	EwayBillDate  *time.Time
	PONo          string
	PODate        *time.Time
	ChallanNo     string
	ChallanDate   *time.Time
	PaymentMethod string
	Items         []ItemInput
}

type invoiceService struct {
	pool *pgxpool.Pool
}

func NewInvoiceService(pool *pgxpool.Pool) InvoiceService {
	return &invoiceService{pool: pool}
}

// nextInvoiceNumber allocates the next per-organization, per-day sequence
// atomically. The upsert-and-increment runs inside the caller's transaction,
// so two concurrent creations for the same day serialize on the counter row
// instead of both reading the same "max existing sequence".
func nextInvoiceNumber(ctx context.Context, tx pgx.Tx, orgID int, date time.Time) (string, error) {
	var lastNumber int64
	err := tx.QueryRow(ctx, `
		INSERT INTO invoice_sequences (organization_id, invoice_date, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (organization_id, invoice_date)
		DO UPDATE SET last_number = invoice_sequences.last_number + 1
		RETURNING last_number
	`, orgID, date).Scan(&lastNumber)
	if err != nil {
		return "", fmt.Errorf("failed to allocate invoice sequence: %w", err)
	}
	return fmt.Sprintf("INV-%s-%03d", date.Format("20060102"), lastNumber), nil
}

func (s *invoiceService) Create(ctx context.Context, orgID int, in CreateInvoiceInput) (*Invoice, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Err: ErrNoItems}
	}

	// Derive all financial fields up front; a bad line aborts before any
	// database work.
	items := make([]InvoiceItem, 0, len(in.Items))
	for i, input := range in.Items {
		item, err := DeriveItem(input)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	totals, err := DeriveTotals(items)
	if err != nil {
		return nil, err
	}

	invoiceDate := in.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}
	// Strip the clock using the date's own calendar day, not epoch-aligned
	// truncation, so a non-UTC date near midnight stays on its stated day.
	y, m, d := invoiceDate.Date()
	invoiceDate = time.Date(y, m, d, 0, 0, 0, 0, invoiceDate.Location())

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Resolve the customer inside the transaction; the snapshot of the name
	// on the invoice survives later customer edits.
	var customerName string
	err = tx.QueryRow(ctx,
		"SELECT name FROM customers WHERE id = $1 AND organization_id = $2",
		in.CustomerID, orgID,
	).Scan(&customerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer id=%d: %w", in.CustomerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	invoiceNumber, err := nextInvoiceNumber(ctx, tx, orgID, invoiceDate)
	if err != nil {
		return nil, err
	}

	var invoiceID int
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (organization_id, customer_id, customer_name, invoice_number,
			invoice_date, due_date, payment_terms, vehicle_no, transport_name,
			lr_no, lr_date, eway_bill_no, eway_bill_date, po_no, po_date,
			challan_no, challan_date, subtotal, sgst_total, cgst_total,
			round_off, total, status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, 'pending', $23)
		RETURNING id
	`, orgID, in.CustomerID, customerName, invoiceNumber,
		invoiceDate, in.DueDate, in.PaymentTerms, in.VehicleNo, in.TransportName,
		in.LRNo, in.LRDate, in.EwayBillNo, in.EwayBillDate, in.PONo, in.PODate,
		in.ChallanNo, in.ChallanDate, totals.Subtotal, totals.SGSTTotal, totals.CGSTTotal,
		totals.RoundOff, totals.Total, in.PaymentMethod,
	).Scan(&invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, line_number, product_id, name, roll_no,
				quantity, weight, rate, taxable_value, sgst_percentage, sgst_amount,
				cgst_percentage, cgst_amount, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, invoiceID, i+1, item.ProductID, item.Name, item.RollNo,
			item.Quantity, item.Weight, item.Rate, item.TaxableValue,
			item.SGSTPercentage, item.SGSTAmount, item.CGSTPercentage, item.CGSTAmount, item.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert invoice item %d: %w", i+1, err)
		}

		// Stock decrement is part of the same transaction as the invoice.
		tag, err := tx.Exec(ctx, `
			UPDATE products
			SET quantity = quantity - $1, updated_at = NOW()
			WHERE id = $2 AND organization_id = $3
		`, item.Quantity, item.ProductID, orgID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock for product id=%d: %w", item.ProductID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("product id=%d: %w", item.ProductID, ErrNotFound)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice creation: %w", err)
	}
	return s.Get(ctx, orgID, invoiceID)
}

const invoiceColumns = `id, organization_id, customer_id, customer_name, invoice_number,
	invoice_date, due_date, payment_terms, vehicle_no, transport_name,
	lr_no, lr_date, eway_bill_no, eway_bill_date, po_no, po_date,
	challan_no, challan_date, subtotal, sgst_total, cgst_total,
	round_off, total, status, payment_method, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	inv := &Invoice{}
	err := row.Scan(
		&inv.ID, &inv.OrganizationID, &inv.CustomerID, &inv.CustomerName, &inv.InvoiceNumber,
		&inv.InvoiceDate, &inv.DueDate, &inv.PaymentTerms, &inv.VehicleNo, &inv.TransportName,
		&inv.LRNo, &inv.LRDate, &inv.EwayBillNo, &inv.EwayBillDate, &inv.PONo, &inv.PODate,
		&inv.ChallanNo, &inv.ChallanDate, &inv.Subtotal, &inv.SGSTTotal, &inv.CGSTTotal,
		&inv.RoundOff, &inv.Total, &inv.Status, &inv.PaymentMethod, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) Get(ctx context.Context, orgID, invoiceID int) (*Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1 AND organization_id = $2",
		invoiceID, orgID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice id=%d: %w", invoiceID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invoice id=%d: %w", invoiceID, err)
	}

	items, err := s.fetchItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (s *invoiceService) fetchItems(ctx context.Context, invoiceID int) ([]InvoiceItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, invoice_id, line_number, product_id, name, roll_no,
		       quantity, weight, rate, taxable_value, sgst_percentage, sgst_amount,
		       cgst_percentage, cgst_amount, total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY line_number
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []InvoiceItem
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.LineNumber, &it.ProductID, &it.Name, &it.RollNo,
			&it.Quantity, &it.Weight, &it.Rate, &it.TaxableValue, &it.SGSTPercentage, &it.SGSTAmount,
			&it.CGSTPercentage, &it.CGSTAmount, &it.Total,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *invoiceService) List(ctx context.Context, orgID int) ([]Invoice, error) {
	return s.list(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE organization_id = $1 ORDER BY created_at DESC, id DESC",
		orgID,
	)
}

func (s *invoiceService) ListByCustomer(ctx context.Context, orgID, customerID int) ([]Invoice, error) {
	return s.list(ctx,
		"SELECT "+invoiceColumns+` FROM invoices
		WHERE organization_id = $1 AND customer_id = $2
		ORDER BY created_at DESC, id DESC`,
		orgID, customerID,
	)
}

func (s *invoiceService) list(ctx context.Context, query string, args ...any) ([]Invoice, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, nil
}

func (s *invoiceService) UpdateStatus(ctx context.Context, orgID, invoiceID int, status InvoiceStatus) (*Invoice, error) {
	if status != InvoiceStatusPaid && status != InvoiceStatusCancelled {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidTransition)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current InvoiceStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM invoices WHERE id = $1 AND organization_id = $2 FOR UPDATE",
		invoiceID, orgID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice id=%d: %w", invoiceID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invoice id=%d: %w", invoiceID, err)
	}

	if !ValidStatusTransition(current, status) {
		return nil, fmt.Errorf("%s → %s: %w", current, status, ErrInvalidTransition)
	}

	_, err = tx.Exec(ctx,
		"UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2",
		status, invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}
	return s.Get(ctx, orgID, invoiceID)
}

func (s *invoiceService) Ledger(ctx context.Context, orgID, customerID int, from, to *time.Time) ([]Invoice, LedgerSummary, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices WHERE organization_id = $1 AND customer_id = $2"
	args := []any{orgID, customerID}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"

	transactions, err := s.list(ctx, query, args...)
	if err != nil {
		return nil, LedgerSummary{}, err
	}

	var summary LedgerSummary
	for _, inv := range transactions {
		summary.TotalInvoices++
		summary.TotalAmount = summary.TotalAmount.Add(inv.Total)
		switch inv.Status {
		case InvoiceStatusPaid:
			summary.PaidAmount = summary.PaidAmount.Add(inv.Total)
		case InvoiceStatusPending:
			summary.PendingAmount = summary.PendingAmount.Add(inv.Total)
		}
	}
	return transactions, summary, nil
}
