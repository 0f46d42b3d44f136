package app

import (
	"context"
	"errors"
	"time"

	"stockbilling/internal/core"
	"stockbilling/internal/pdf"
)

type appService struct {
	users         core.UserService
	organizations core.OrganizationService
	products      core.ProductService
	customers     core.CustomerService
	invoices      core.InvoiceService
	stats         core.StatsService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	users core.UserService,
	organizations core.OrganizationService,
	products core.ProductService,
	customers core.CustomerService,
	invoices core.InvoiceService,
	stats core.StatsService,
) ApplicationService {
	return &appService{
		users:         users,
		organizations: organizations,
		products:      products,
		customers:     customers,
		invoices:      invoices,
		stats:         stats,
	}
}

func (s *appService) RegisterOrganization(ctx context.Context, req RegisterRequest) (*core.User, error) {
	return s.users.Register(ctx, core.RegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		OrganizationName: req.OrganizationName,
	})
}

func (s *appService) AuthenticateUser(ctx context.Context, email, password string) (*core.User, error) {
	return s.users.Authenticate(ctx, email, password)
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *appService) GetOrganization(ctx context.Context, orgID int) (*core.Organization, error) {
	return s.organizations.Get(ctx, orgID)
}

func (s *appService) UpdateOrganization(ctx context.Context, orgID int, req OrganizationRequest) (*core.Organization, error) {
	return s.organizations.UpdateProfile(ctx, orgID, core.OrganizationProfileInput{
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Mobile:    req.Mobile,
		Email:     req.Email,
		GSTNumber: req.GSTNumber,
		PAN:       req.PAN,
		Banks:     req.Banks,
	})
}

func productInput(req ProductRequest) core.ProductInput {
	return core.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		GSM:         req.GSM,
		RollNo:      req.RollNo,
		ReelNo:      req.ReelNo,
		Diameter:    req.Diameter,
		Weight:      req.Weight,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Unit:        req.Unit,
		Category:    req.Category,
	}
}

func (s *appService) ListProducts(ctx context.Context, orgID int, search, category string) ([]core.Product, error) {
	return s.products.List(ctx, orgID, search, category)
}

func (s *appService) GetProduct(ctx context.Context, orgID, productID int) (*core.Product, error) {
	return s.products.Get(ctx, orgID, productID)
}

func (s *appService) CreateProduct(ctx context.Context, orgID int, req ProductRequest) (*core.Product, error) {
	return s.products.Create(ctx, orgID, productInput(req))
}

func (s *appService) UpdateProduct(ctx context.Context, orgID, productID int, req ProductRequest) (*core.Product, error) {
	return s.products.Update(ctx, orgID, productID, productInput(req))
}

func (s *appService) DeleteProduct(ctx context.Context, orgID, productID int) error {
	return s.products.Delete(ctx, orgID, productID)
}

func (s *appService) SearchProducts(ctx context.Context, orgID int, prefix string, limit int) ([]core.Product, error) {
	return s.products.Search(ctx, orgID, prefix, limit)
}

func (s *appService) GetProductSales(ctx context.Context, orgID, productID int) ([]core.ProductSale, error) {
	return s.products.SalesHistory(ctx, orgID, productID)
}

func customerInput(req CustomerRequest) core.CustomerInput {
	return core.CustomerInput{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		GSTNumber:   req.GSTNumber,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
	}
}

func (s *appService) ListCustomers(ctx context.Context, orgID int, search string) ([]core.Customer, error) {
	return s.customers.List(ctx, orgID, search)
}

func (s *appService) GetCustomer(ctx context.Context, orgID, customerID int) (*core.Customer, error) {
	return s.customers.Get(ctx, orgID, customerID)
}

func (s *appService) CreateCustomer(ctx context.Context, orgID int, req CustomerRequest) (*core.Customer, error) {
	return s.customers.Create(ctx, orgID, customerInput(req))
}

func (s *appService) UpdateCustomer(ctx context.Context, orgID, customerID int, req CustomerRequest) (*core.Customer, error) {
	return s.customers.Update(ctx, orgID, customerID, customerInput(req))
}

func (s *appService) DeleteCustomer(ctx context.Context, orgID, customerID int) error {
	return s.customers.Delete(ctx, orgID, customerID)
}

func (s *appService) ListInvoices(ctx context.Context, orgID int) ([]core.Invoice, error) {
	return s.invoices.List(ctx, orgID)
}

func (s *appService) ListCustomerInvoices(ctx context.Context, orgID, customerID int) ([]core.Invoice, error) {
	return s.invoices.ListByCustomer(ctx, orgID, customerID)
}

func (s *appService) GetInvoice(ctx context.Context, orgID, invoiceID int) (*core.Invoice, error) {
	return s.invoices.Get(ctx, orgID, invoiceID)
}

func (s *appService) CreateInvoice(ctx context.Context, orgID int, req core.CreateInvoiceInput) (*core.Invoice, error) {
	return s.invoices.Create(ctx, orgID, req)
}

func (s *appService) UpdateInvoiceStatus(ctx context.Context, orgID, invoiceID int, status core.InvoiceStatus) (*core.Invoice, error) {
	return s.invoices.UpdateStatus(ctx, orgID, invoiceID, status)
}

func (s *appService) GetCustomerLedger(ctx context.Context, orgID, customerID int, from, to *time.Time) (*LedgerResult, error) {
	customer, err := s.customers.Get(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	transactions, summary, err := s.invoices.Ledger(ctx, orgID, customerID, from, to)
	if err != nil {
		return nil, err
	}
	return &LedgerResult{Customer: customer, Transactions: transactions, Summary: summary}, nil
}

// DownloadInvoicePDF gathers the invoice, its customer, and the issuing
// organization, then hands them to the layout engine. A customer deleted
// after invoicing degrades to a blank bill-to block rather than an error.
func (s *appService) DownloadInvoicePDF(ctx context.Context, orgID, invoiceID int) (*DocumentResult, error) {
	invoice, err := s.invoices.Get(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.Get(ctx, orgID, invoice.CustomerID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		customer = nil
	}
	org, err := s.organizations.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	data, err := pdf.RenderInvoice(invoice, customer, *org)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{Filename: pdf.InvoiceFilename(invoice), Data: data}, nil
}

func (s *appService) DownloadLedgerPDF(ctx context.Context, orgID, customerID int, from, to *time.Time) (*DocumentResult, error) {
	ledger, err := s.GetCustomerLedger(ctx, orgID, customerID, from, to)
	if err != nil {
		return nil, err
	}

	data, err := pdf.RenderLedger(ledger.Customer, ledger.Transactions, ledger.Summary, from, to)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{
		Filename: pdf.LedgerFilename(ledger.Customer, time.Now()),
		Data:     data,
	}, nil
}

func (s *appService) GetDashboardStats(ctx context.Context, orgID int) (*core.DashboardStats, error) {
	return s.stats.Dashboard(ctx, orgID)
}
