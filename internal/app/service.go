package app

import (
	"context"
	"time"

	"stockbilling/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic. Implementations must contain
// no display logic of any kind.
type ApplicationService interface {
	// RegisterOrganization creates an organization together with its first
	// admin user and returns that user.
	RegisterOrganization(ctx context.Context, req RegisterRequest) (*core.User, error)

	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, email, password string) (*core.User, error)

	// GetUser returns a user profile by ID.
	GetUser(ctx context.Context, userID int) (*core.User, error)

	// GetOrganization returns the organization's display profile, bank
	// accounts included.
	GetOrganization(ctx context.Context, orgID int) (*core.Organization, error)

	// UpdateOrganization replaces the organization profile and its bank list.
	UpdateOrganization(ctx context.Context, orgID int, req OrganizationRequest) (*core.Organization, error)

	ListProducts(ctx context.Context, orgID int, search, category string) ([]core.Product, error)
	GetProduct(ctx context.Context, orgID, productID int) (*core.Product, error)
	CreateProduct(ctx context.Context, orgID int, req ProductRequest) (*core.Product, error)
	UpdateProduct(ctx context.Context, orgID, productID int, req ProductRequest) (*core.Product, error)
	DeleteProduct(ctx context.Context, orgID, productID int) error

	// SearchProducts is the typeahead feed for the invoice creation form.
	SearchProducts(ctx context.Context, orgID int, prefix string, limit int) ([]core.Product, error)

	// GetProductSales returns the sold lines of one product across invoices.
	GetProductSales(ctx context.Context, orgID, productID int) ([]core.ProductSale, error)

	ListCustomers(ctx context.Context, orgID int, search string) ([]core.Customer, error)
	GetCustomer(ctx context.Context, orgID, customerID int) (*core.Customer, error)
	CreateCustomer(ctx context.Context, orgID int, req CustomerRequest) (*core.Customer, error)
	UpdateCustomer(ctx context.Context, orgID, customerID int, req CustomerRequest) (*core.Customer, error)
	DeleteCustomer(ctx context.Context, orgID, customerID int) error

	ListInvoices(ctx context.Context, orgID int) ([]core.Invoice, error)
	ListCustomerInvoices(ctx context.Context, orgID, customerID int) ([]core.Invoice, error)
	GetInvoice(ctx context.Context, orgID, invoiceID int) (*core.Invoice, error)
	CreateInvoice(ctx context.Context, orgID int, req core.CreateInvoiceInput) (*core.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, orgID, invoiceID int, status core.InvoiceStatus) (*core.Invoice, error)

	// GetCustomerLedger returns a customer's transactions (newest first)
	// within an optional date range, with the paid/pending summary.
	GetCustomerLedger(ctx context.Context, orgID, customerID int, from, to *time.Time) (*LedgerResult, error)

	// DownloadInvoicePDF renders the tax-invoice document for download.
	DownloadInvoicePDF(ctx context.Context, orgID, invoiceID int) (*DocumentResult, error)

	// DownloadLedgerPDF renders a customer ledger statement for download.
	DownloadLedgerPDF(ctx context.Context, orgID, customerID int, from, to *time.Time) (*DocumentResult, error)

	// GetDashboardStats returns the landing dashboard aggregates.
	GetDashboardStats(ctx context.Context, orgID int) (*core.DashboardStats, error)
}

// DocumentResult is a rendered PDF plus its suggested download filename.
type DocumentResult struct {
	Filename string
	Data     []byte
}

// LedgerResult is returned by GetCustomerLedger.
type LedgerResult struct {
	Customer     *core.Customer
	Transactions []core.Invoice
	Summary      core.LedgerSummary
}
