package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrganizationService exposes the tenant's display profile. The document
// layout engine takes the Organization as a parameter, so the company and
// bank details printed on invoices live here rather than as compiled-in
// constants.
type OrganizationService interface {
	Get(ctx context.Context, orgID int) (*Organization, error)
	UpdateProfile(ctx context.Context, orgID int, in OrganizationProfileInput) (*Organization, error)
}

type OrganizationProfileInput struct {
	Name      string
	Address   string
	Phone     string
	Mobile    string
	Email     string
	GSTNumber string
	PAN       string
	Banks     []BankAccount
}

type organizationService struct {
	pool *pgxpool.Pool
}

func NewOrganizationService(pool *pgxpool.Pool) OrganizationService {
	return &organizationService{pool: pool}
}

func (s *organizationService) Get(ctx context.Context, orgID int) (*Organization, error) {
	org := &Organization{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, address, phone, mobile, email, gst_number, pan, created_at
		FROM organizations
		WHERE id = $1
	`, orgID).Scan(
		&org.ID, &org.Name, &org.Address, &org.Phone, &org.Mobile, &org.Email,
		&org.GSTNumber, &org.PAN, &org.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("organization id=%d: %w", orgID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch organization id=%d: %w", orgID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT bank_name, branch, account_no, ifsc
		FROM organization_banks
		WHERE organization_id = $1
		ORDER BY position
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b BankAccount
		if err := rows.Scan(&b.BankName, &b.Branch, &b.AccountNo, &b.IFSC); err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		org.Banks = append(org.Banks, b)
	}
	return org, nil
}

func (s *organizationService) UpdateProfile(ctx context.Context, orgID int, in OrganizationProfileInput) (*Organization, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE organizations
		SET name = $1, address = $2, phone = $3, mobile = $4, email = $5, gst_number = $6, pan = $7
		WHERE id = $8
	`, in.Name, in.Address, in.Phone, in.Mobile, in.Email, in.GSTNumber, in.PAN, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("organization id=%d: %w", orgID, ErrNotFound)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM organization_banks WHERE organization_id = $1", orgID); err != nil {
		return nil, fmt.Errorf("failed to clear bank accounts: %w", err)
	}
	for i, b := range in.Banks {
		_, err := tx.Exec(ctx, `
			INSERT INTO organization_banks (organization_id, bank_name, branch, account_no, ifsc, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, orgID, b.BankName, b.Branch, b.AccountNo, b.IFSC, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to insert bank account %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit profile update: %w", err)
	}
	return s.Get(ctx, orgID)
}
