package core_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"stockbilling/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE invoice_items, invoices, invoice_sequences, products, customers, users, organization_banks, organizations RESTART IDENTITY CASCADE;

		INSERT INTO organizations (id, name, address, phone, mobile, email, gst_number, pan)
		VALUES (1, 'Test Papers Pvt Ltd', '12 Mill Road, Pune', '020-1234567', '9800000000', 'billing@testpapers.example', '27AAAAA0000A1Z5', 'AAAAA0000A');
		SELECT setval('organizations_id_seq', 1);

		INSERT INTO users (organization_id, name, email, password_hash, role)
		VALUES (1, 'Test Admin', 'admin@testpapers.example', 'x', 'admin');

		INSERT INTO customers (id, organization_id, name, company_name, gst_number, email, phone, street, city, state, zip_code, country)
		VALUES (1, 1, 'Sharma Traders', 'Sharma Trading Co', '27BBBBB0000B1Z5', 'sharma@example.com', '9811111111', '4 Market Lane', 'Mumbai', 'Maharashtra', '400001', 'India');
		SELECT setval('customers_id_seq', 1);

		INSERT INTO products (id, organization_id, name, description, gsm, roll_no, reel_no, diameter, weight, quantity, price, unit, category)
		VALUES
		(1, 1, 'Kraft Paper 120gsm', '', 120, 'R-101', 'RL-9', 100, 450, 50, 125.50, 'kg', 'kraft'),
		(2, 1, 'Duplex Board 230gsm', '', 230, 'R-205', 'RL-3', 90, 300, 20, 48.00, 'kg', 'duplex');
		SELECT setval('products_id_seq', 2);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestInvoiceService_CreateDerivesAndNumbers(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewInvoiceService(pool)
	ctx := context.Background()

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	input := core.CreateInvoiceInput{
		CustomerID:  1,
		InvoiceDate: date,
		DueDate:     date.AddDate(0, 0, 30),
		Items: []core.ItemInput{
			{ProductID: 1, Name: "Kraft Paper 120gsm", RollNo: "R-101", Quantity: dec("10"), Rate: dec("125.50")},
		},
	}

	inv, err := svc.Create(ctx, 1, input)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if inv.InvoiceNumber != "INV-20260315-001" {
		t.Errorf("Expected invoice number INV-20260315-001, got %s", inv.InvoiceNumber)
	}
	if inv.Status != core.InvoiceStatusPending {
		t.Errorf("Expected new invoice to be pending, got %s", inv.Status)
	}

	// Amounts come from server-side derivation: taxable 1255.00, 6% each side.
	if got := inv.Subtotal.StringFixed(2); got != "1255.00" {
		t.Errorf("Expected subtotal 1255.00, got %s", got)
	}
	if got := inv.SGSTTotal.StringFixed(2); got != "75.30" {
		t.Errorf("Expected SGST total 75.30, got %s", got)
	}
	if got := inv.Total.StringFixed(2); got != "1406.00" {
		t.Errorf("Expected total 1406.00, got %s", got)
	}
	if got := inv.RoundOff.StringFixed(2); got != "0.40" {
		t.Errorf("Expected round-off 0.40, got %s", got)
	}
	if len(inv.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(inv.Items))
	}

	// Stock decremented in the same transaction.
	var quantity decimal.Decimal
	if err := pool.QueryRow(ctx, "SELECT quantity FROM products WHERE id = 1").Scan(&quantity); err != nil {
		t.Fatalf("Failed to read product quantity: %v", err)
	}
	if quantity.StringFixed(2) != "40.00" {
		t.Errorf("Expected stock 40.00 after sale, got %s", quantity.StringFixed(2))
	}

	// Second invoice on the same day takes the next sequence slot.
	second, err := svc.Create(ctx, 1, input)
	if err != nil {
		t.Fatalf("Second create failed: %v", err)
	}
	if second.InvoiceNumber != "INV-20260315-002" {
		t.Errorf("Expected invoice number INV-20260315-002, got %s", second.InvoiceNumber)
	}
}

func TestInvoiceService_NumbersByStatedCalendarDay(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewInvoiceService(pool)
	ctx := context.Background()

	// 02:00 IST is the previous day in UTC; the number must still carry the
	// stated calendar day.
	ist := time.FixedZone("IST", 5*3600+1800)
	inv, err := svc.Create(ctx, 1, core.CreateInvoiceInput{
		CustomerID:  1,
		InvoiceDate: time.Date(2026, 3, 16, 2, 0, 0, 0, ist),
		Items: []core.ItemInput{
			{ProductID: 1, Name: "Kraft Paper 120gsm", Quantity: dec("1"), Rate: dec("100")},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if inv.InvoiceNumber != "INV-20260316-001" {
		t.Errorf("Expected invoice number INV-20260316-001, got %s", inv.InvoiceNumber)
	}
}

func TestInvoiceService_CreateRejectsUnknownCustomer(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewInvoiceService(pool)

	_, err := svc.Create(context.Background(), 1, core.CreateInvoiceInput{
		CustomerID:  999,
		InvoiceDate: time.Now(),
		Items: []core.ItemInput{
			{ProductID: 1, Name: "Kraft Paper 120gsm", Quantity: dec("1"), Rate: dec("100")},
		},
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown customer, got %v", err)
	}
}

func TestInvoiceService_StatusTransitions(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewInvoiceService(pool)
	ctx := context.Background()

	inv, err := svc.Create(ctx, 1, core.CreateInvoiceInput{
		CustomerID:  1,
		InvoiceDate: time.Now(),
		Items: []core.ItemInput{
			{ProductID: 2, Name: "Duplex Board 230gsm", Quantity: dec("5"), Rate: dec("48")},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	paid, err := svc.UpdateStatus(ctx, 1, inv.ID, core.InvoiceStatusPaid)
	if err != nil {
		t.Fatalf("pending → paid failed: %v", err)
	}
	if paid.Status != core.InvoiceStatusPaid {
		t.Errorf("Expected status paid, got %s", paid.Status)
	}

	// Paid is terminal.
	_, err = svc.UpdateStatus(ctx, 1, inv.ID, core.InvoiceStatusCancelled)
	if !errors.Is(err, core.ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition for paid → cancelled, got %v", err)
	}

	// Tenancy: another organization cannot see the invoice.
	_, err = svc.UpdateStatus(ctx, 2, inv.ID, core.InvoiceStatusPaid)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for foreign organization, got %v", err)
	}
}

func TestInvoiceService_Ledger(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewInvoiceService(pool)
	ctx := context.Background()

	mk := func(rate string) *core.Invoice {
		t.Helper()
		inv, err := svc.Create(ctx, 1, core.CreateInvoiceInput{
			CustomerID:  1,
			InvoiceDate: time.Now(),
			Items: []core.ItemInput{
				{ProductID: 1, Name: "Kraft Paper 120gsm", Quantity: dec("1"), Rate: dec(rate)},
			},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		return inv
	}

	first := mk("100") // total 112
	mk("200")          // total 224, stays pending

	if _, err := svc.UpdateStatus(ctx, 1, first.ID, core.InvoiceStatusPaid); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	transactions, summary, err := svc.Ledger(ctx, 1, 1, nil, nil)
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}

	if len(transactions) != 2 {
		t.Fatalf("Expected 2 ledger transactions, got %d", len(transactions))
	}
	// Newest first.
	if transactions[0].Total.StringFixed(2) != "224.00" {
		t.Errorf("Expected newest transaction first (224.00), got %s", transactions[0].Total.StringFixed(2))
	}

	if summary.TotalInvoices != 2 {
		t.Errorf("Expected 2 total invoices, got %d", summary.TotalInvoices)
	}
	if got := summary.TotalAmount.StringFixed(2); got != "336.00" {
		t.Errorf("Expected total amount 336.00, got %s", got)
	}
	if got := summary.PaidAmount.StringFixed(2); got != "112.00" {
		t.Errorf("Expected paid amount 112.00, got %s", got)
	}
	if got := summary.PendingAmount.StringFixed(2); got != "224.00" {
		t.Errorf("Expected pending amount 224.00, got %s", got)
	}
}
