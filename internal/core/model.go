package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Organization is a tenant. All products, customers, and invoices are scoped
// to exactly one organization. Its display fields (address, tax IDs, bank
// accounts) appear on every generated document.
type Organization struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	Phone     string        `json:"phone"`
	Mobile    string        `json:"mobile"`
	Email     string        `json:"email"`
	GSTNumber string        `json:"gst_number"`
	PAN       string        `json:"pan"`
	Banks     []BankAccount `json:"banks"`
	CreatedAt time.Time     `json:"created_at"`
}

// BankAccount is one of the organization's payment accounts printed in the
// invoice bank-details block.
type BankAccount struct {
	BankName  string `json:"bank_name"`
	Branch    string `json:"branch"`
	AccountNo string `json:"account_no"`
	IFSC      string `json:"ifsc"`
}

// User is an authenticated member of an organization.
type User struct {
	ID             int       `json:"id"`
	OrganizationID int       `json:"organization_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Product is a stock item (paper rolls in the reference deployment, hence
// gsm/roll/reel/diameter attributes).
type Product struct {
	ID             int             `json:"id"`
	OrganizationID int             `json:"organization_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	GSM            decimal.Decimal `json:"gsm"`
	RollNo         string          `json:"roll_no"`
	ReelNo         string          `json:"reel_no"`
	Diameter       decimal.Decimal `json:"diameter"`
	Weight         decimal.Decimal `json:"weight"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Unit           string          `json:"unit"`
	Category       string          `json:"category"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Address is a customer's postal address, consumed read-only by the
// document layout engine's bill-to block.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type Customer struct {
	ID             int       `json:"id"`
	OrganizationID int       `json:"organization_id"`
	Name           string    `json:"name"`
	CompanyName    string    `json:"company_name"`
	GSTNumber      string    `json:"gst_number"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        Address   `json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// ValidStatusTransition reports whether an invoice may move from one status
// to another. Paid and cancelled are terminal.
func ValidStatusTransition(from, to InvoiceStatus) bool {
	if from != InvoiceStatusPending {
		return false
	}
	return to == InvoiceStatusPaid || to == InvoiceStatusCancelled
}

// InvoiceItem is one line of an invoice. Constructed once at invoice-creation
// time by DeriveItem; immutable thereafter.
//
// Invariant: Total = TaxableValue + SGSTAmount + CGSTAmount.
type InvoiceItem struct {
	ID             int             `json:"id"`
	InvoiceID      int             `json:"invoice_id"`
	LineNumber     int             `json:"line_number"`
	ProductID      int             `json:"product_id"`
	Name           string          `json:"name"`
	RollNo         string          `json:"roll_no"`
	Quantity       decimal.Decimal `json:"quantity"`
	Weight         decimal.Decimal `json:"weight"`
	Rate           decimal.Decimal `json:"rate"`
	TaxableValue   decimal.Decimal `json:"taxable_value"`
	SGSTPercentage decimal.Decimal `json:"sgst_percentage"`
	SGSTAmount     decimal.Decimal `json:"sgst_amount"`
	CGSTPercentage decimal.Decimal `json:"cgst_percentage"`
	CGSTAmount     decimal.Decimal `json:"cgst_amount"`
	Total          decimal.Decimal `json:"total"`
}

// Invoice is the document entity.
//
// Invariants: Total = round(Subtotal + SGSTTotal + CGSTTotal) and
// RoundOff = Total - (Subtotal + SGSTTotal + CGSTTotal).
type Invoice struct {
	ID             int             `json:"id"`
	OrganizationID int             `json:"organization_id"`
	CustomerID     int             `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	InvoiceNumber  string          `json:"invoice_number"`
	InvoiceDate    time.Time       `json:"invoice_date"`
	DueDate        time.Time       `json:"due_date"`
	PaymentTerms   int             `json:"payment_terms"`
	VehicleNo      string          `json:"vehicle_no,omitempty"`
	TransportName  string          `json:"transport_name,omitempty"`
	LRNo           string          `json:"lr_no,omitempty"`
	LRDate         *time.Time      `json:"lr_date,omitempty"`
	EwayBillNo     string          `json:"eway_bill_no,omitempty"`
	EwayBillDate   *time.Time      `json:"eway_bill_date,omitempty"`
	PONo           string          `json:"po_no,omitempty"`
	PODate         *time.Time      `json:"po_date,omitempty"`
	ChallanNo      string          `json:"challan_no,omitempty"`
	ChallanDate    *time.Time      `json:"challan_date,omitempty"`
	Items          []InvoiceItem   `json:"items,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	SGSTTotal      decimal.Decimal `json:"sgst_total"`
	CGSTTotal      decimal.Decimal `json:"cgst_total"`
	RoundOff       decimal.Decimal `json:"round_off"`
	Total          decimal.Decimal `json:"total"`
	Status         InvoiceStatus   `json:"status"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LedgerSummary aggregates a customer's invoices for the ledger statement.
type LedgerSummary struct {
	TotalInvoices int             `json:"total_invoices"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// ProductSale is one sold line of a product across all invoices, for the
// per-product sales history view.
type ProductSale struct {
	InvoiceID     int             `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	CustomerName  string          `json:"customer_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	Total         decimal.Decimal `json:"total"`
	Status        InvoiceStatus   `json:"status"`
}

// DashboardStats backs the landing dashboard.
type DashboardStats struct {
	TodaySalesTotal   decimal.Decimal `json:"today_sales_total"`
	TodaySalesCount   int             `json:"today_sales_count"`
	MonthlySalesTotal decimal.Decimal `json:"monthly_sales_total"`
	MonthlySalesCount int             `json:"monthly_sales_count"`
	LowStockProducts  []Product       `json:"low_stock_products"`
	RecentInvoices    []Invoice       `json:"recent_invoices"`
}
