package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StatsService computes the dashboard aggregates.
type StatsService interface {
	Dashboard(ctx context.Context, orgID int) (*DashboardStats, error)
}

type statsService struct {
	pool *pgxpool.Pool
}

func NewStatsService(pool *pgxpool.Pool) StatsService {
	return &statsService{pool: pool}
}

// lowStockThreshold is the quantity below which a product appears in the
// dashboard's low-stock list.
var lowStockThreshold = decimal.NewFromInt(10)

func (s *statsService) Dashboard(ctx context.Context, orgID int) (*DashboardStats, error) {
	stats := &DashboardStats{
		TodaySalesTotal:   decimal.Zero,
		MonthlySalesTotal: decimal.Zero,
	}

	// Sales aggregates count paid invoices only.
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM invoices
		WHERE organization_id = $1 AND status = 'paid'
		  AND invoice_date >= CURRENT_DATE
	`, orgID).Scan(&stats.TodaySalesTotal, &stats.TodaySalesCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute today's sales: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM invoices
		WHERE organization_id = $1 AND status = 'paid'
		  AND invoice_date >= CURRENT_DATE - INTERVAL '30 days'
	`, orgID).Scan(&stats.MonthlySalesTotal, &stats.MonthlySalesCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly sales: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+` FROM products
		WHERE organization_id = $1 AND quantity < $2
		ORDER BY quantity ASC`,
		orgID, lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query low-stock products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		stats.LowStockProducts = append(stats.LowStockProducts, *p)
	}
	rows.Close()

	recent, err := s.pool.Query(ctx,
		"SELECT "+invoiceColumns+` FROM invoices
		WHERE organization_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 5`,
		orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent invoices: %w", err)
	}
	defer recent.Close()
	for recent.Next() {
		inv, err := scanInvoice(recent)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		stats.RecentInvoices = append(stats.RecentInvoices, *inv)
	}
	return stats, nil
}
