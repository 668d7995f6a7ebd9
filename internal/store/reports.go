package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pharmacart/m/domain"
)

// Stock below this level counts as a low-stock alert.
const LowStockThreshold = 20

// Expiry window for the dashboard's expiring-soon metric, in days.
const ExpiryWindowDays = 30

type DashboardStats struct {
	TotalOrders       int64          `db:"total_orders" json:"total_orders"`
	TotalRevenue      float64        `db:"total_revenue" json:"total_revenue"`
	PendingOrders     int64          `db:"pending_orders" json:"pending_orders"`
	TotalMedicines    int64          `db:"total_medicines" json:"total_medicines"`
	LowStockItems     int64          `db:"low_stock_items" json:"low_stock_items"`
	ExpiringMedicines int64          `db:"expiring_medicines" json:"expiring_medicines"`
	RecentOrders      []domain.Order `db:"-" json:"recent_orders"`
}

type ReportStore struct {
	db *sqlx.DB
}

func NewReportStore(db *sqlx.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Dashboard aggregates the storefront's read-side metrics in SQL.
func (s *ReportStore) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	err := s.db.GetContext(ctx, &stats, `SELECT
	    (SELECT COUNT(*) FROM orders) AS total_orders,
	    (SELECT COALESCE(SUM(total_amount), 0) FROM orders) AS total_revenue,
	    (SELECT COUNT(*) FROM orders WHERE status = 'pending') AS pending_orders,
	    (SELECT COUNT(*) FROM medicines) AS total_medicines,
	    (SELECT COUNT(*) FROM medicines WHERE stock_level < ?) AS low_stock_items,
	    (SELECT COUNT(*) FROM medicines WHERE expiry_date IS NOT NULL AND expiry_date <= date('now', '+' || ? || ' day')) AS expiring_medicines`,
		LowStockThreshold, ExpiryWindowDays)
	if err != nil {
		return nil, fmt.Errorf("load dashboard stats: %w", err)
	}

	stats.RecentOrders = []domain.Order{}
	err = s.db.SelectContext(ctx, &stats.RecentOrders, `SELECT id, customer_id, total_amount, status, payment_status, created_at, updated_at
	    FROM orders ORDER BY created_at DESC, id LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("load recent orders: %w", err)
	}

	return &stats, nil
}
