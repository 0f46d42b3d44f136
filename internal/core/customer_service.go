package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService manages billing parties. Scoped to the caller's
// organization like everything else.
type CustomerService interface {
	Create(ctx context.Context, orgID int, in CustomerInput) (*Customer, error)
	List(ctx context.Context, orgID int, search string) ([]Customer, error)
	Get(ctx context.Context, orgID, customerID int) (*Customer, error)
	Update(ctx context.Context, orgID, customerID int, in CustomerInput) (*Customer, error)
	Delete(ctx context.Context, orgID, customerID int) error
}

type CustomerInput struct {
	Name        string
	CompanyName string
	GSTNumber   string
	Email       string
	Phone       string
	Address     Address
}

type customerService struct {
	pool *pgxpool.Pool
}

func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

const customerColumns = `id, organization_id, name, company_name, gst_number, email, phone,
	street, city, state, zip_code, country, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	c := &Customer{}
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.Name, &c.CompanyName, &c.GSTNumber, &c.Email, &c.Phone,
		&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.ZipCode, &c.Address.Country,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, orgID int, in CustomerInput) (*Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Err: errors.New("customer name is required")}
	}

	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		INSERT INTO customers (organization_id, name, company_name, gst_number, email, phone,
			street, city, state, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+customerColumns,
		orgID, strings.TrimSpace(in.Name), in.CompanyName, in.GSTNumber, in.Email, in.Phone,
		in.Address.Street, in.Address.City, in.Address.State, in.Address.ZipCode, in.Address.Country,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

func (s *customerService) List(ctx context.Context, orgID int, search string) ([]Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers WHERE organization_id = $1"
	args := []any{orgID}

	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		query += " AND (LOWER(name) LIKE $2 OR LOWER(company_name) LIKE $2)"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, nil
}

func (s *customerService) Get(ctx context.Context, orgID, customerID int) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1 AND organization_id = $2",
		customerID, orgID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer id=%d: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch customer id=%d: %w", customerID, err)
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, orgID, customerID int, in CustomerInput) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		UPDATE customers
		SET name = $1, company_name = $2, gst_number = $3, email = $4, phone = $5,
			street = $6, city = $7, state = $8, zip_code = $9, country = $10, updated_at = NOW()
		WHERE id = $11 AND organization_id = $12
		RETURNING `+customerColumns,
		strings.TrimSpace(in.Name), in.CompanyName, in.GSTNumber, in.Email, in.Phone,
		in.Address.Street, in.Address.City, in.Address.State, in.Address.ZipCode, in.Address.Country,
		customerID, orgID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer id=%d: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update customer id=%d: %w", customerID, err)
	}
	return c, nil
}

func (s *customerService) Delete(ctx context.Context, orgID, customerID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM customers WHERE id = $1 AND organization_id = $2",
		customerID, orgID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete customer id=%d: %w", customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer id=%d: %w", customerID, ErrNotFound)
	}
	return nil
}
