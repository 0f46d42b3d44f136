package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductService manages the stock catalogue. Every operation is scoped to
// the caller's organization.
type ProductService interface {
	Create(ctx context.Context, orgID int, in ProductInput) (*Product, error)
	// List returns products newest first, optionally filtered by a
	// case-insensitive name substring and an exact category.
	List(ctx context.Context, orgID int, search, category string) ([]Product, error)
	Get(ctx context.Context, orgID, productID int) (*Product, error)
	Update(ctx context.Context, orgID, productID int, in ProductInput) (*Product, error)
	Delete(ctx context.Context, orgID, productID int) error
	// Search is the lightweight name-prefix lookup behind the invoice cart.
	Search(ctx context.Context, orgID int, prefix string, limit int) ([]Product, error)
	// SalesHistory lists every invoice line that sold this product.
	SalesHistory(ctx context.Context, orgID, productID int) ([]ProductSale, error)
}

type ProductInput struct {
	Name        string
	Description string
	GSM         decimal.Decimal
	RollNo      string
	ReelNo      string
	Diameter    decimal.Decimal
	Weight      decimal.Decimal
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Unit        string
	Category    string
}

type productService struct {
	pool *pgxpool.Pool
}

func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = `id, organization_id, name, description, gsm, roll_no, reel_no,
	diameter, weight, quantity, price, unit, category, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.Name, &p.Description, &p.GSM, &p.RollNo, &p.ReelNo,
		&p.Diameter, &p.Weight, &p.Quantity, &p.Price, &p.Unit, &p.Category,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Create(ctx context.Context, orgID int, in ProductInput) (*Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Err: errors.New("product name is required")}
	}
	if in.Price.IsNegative() {
		return nil, &ValidationError{Field: "price", Err: ErrRateNegative}
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (organization_id, name, description, gsm, roll_no, reel_no,
			diameter, weight, quantity, price, unit, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+productColumns,
		orgID, strings.TrimSpace(in.Name), in.Description, in.GSM, in.RollNo, in.ReelNo,
		in.Diameter, in.Weight, in.Quantity, in.Price, in.Unit, in.Category,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, orgID int, search, category string) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE organization_id = $1"
	args := []any{orgID}

	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		query += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args))
	}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, orgID, productID int) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1 AND organization_id = $2",
		productID, orgID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product id=%d: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch product id=%d: %w", productID, err)
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, orgID, productID int, in ProductInput) (*Product, error) {
	if in.Price.IsNegative() {
		return nil, &ValidationError{Field: "price", Err: ErrRateNegative}
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $1, description = $2, gsm = $3, roll_no = $4, reel_no = $5,
			diameter = $6, weight = $7, quantity = $8, price = $9, unit = $10,
			category = $11, updated_at = NOW()
		WHERE id = $12 AND organization_id = $13
		RETURNING `+productColumns,
		strings.TrimSpace(in.Name), in.Description, in.GSM, in.RollNo, in.ReelNo,
		in.Diameter, in.Weight, in.Quantity, in.Price, in.Unit, in.Category,
		productID, orgID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product id=%d: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update product id=%d: %w", productID, err)
	}
	return p, nil
}

func (s *productService) Delete(ctx context.Context, orgID, productID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM products WHERE id = $1 AND organization_id = $2",
		productID, orgID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete product id=%d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product id=%d: %w", productID, ErrNotFound)
	}
	return nil
}

func (s *productService) Search(ctx context.Context, orgID int, prefix string, limit int) ([]Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+` FROM products
		WHERE organization_id = $1 AND LOWER(name) LIKE $2
		ORDER BY name
		LIMIT $3`,
		orgID, strings.ToLower(prefix)+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, nil
}

func (s *productService) SalesHistory(ctx context.Context, orgID, productID int) ([]ProductSale, error) {
	// Verify the product belongs to the caller before exposing its history.
	if _, err := s.Get(ctx, orgID, productID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.invoice_number, i.invoice_date, i.customer_name,
		       ii.quantity, ii.rate, ii.total, i.status
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE ii.product_id = $1 AND i.organization_id = $2
		ORDER BY i.invoice_date DESC, i.id DESC
	`, productID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales history: %w", err)
	}
	defer rows.Close()

	var sales []ProductSale
	for rows.Next() {
		var sale ProductSale
		if err := rows.Scan(
			&sale.InvoiceID, &sale.InvoiceNumber, &sale.InvoiceDate, &sale.CustomerName,
			&sale.Quantity, &sale.Rate, &sale.Total, &sale.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}
