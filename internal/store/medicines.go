package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pharmacart/m/domain"
)

const medicineColumns = `id, name, category, price, stock_level, requires_prescription, expiry_date, description, manufacturer, created_at, updated_at`

type MedicineStore struct {
	db *sqlx.DB
}

func NewMedicineStore(db *sqlx.DB) *MedicineStore {
	return &MedicineStore{db: db}
}

// ListFilter narrows a catalog listing. Query matches name or
// description as a substring.
type ListFilter struct {
	Category    string
	Query       string
	InStockOnly bool
}

func (s *MedicineStore) List(ctx context.Context, filter ListFilter) ([]domain.Medicine, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.InStockOnly {
		clauses = append(clauses, "stock_level > 0")
	}
	if filter.Category != "" && !strings.EqualFold(filter.Category, "all") {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		clauses = append(clauses, "(name LIKE ? OR description LIKE ?)")
		args = append(args, like, like)
	}

	query := `SELECT ` + medicineColumns + ` FROM medicines`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY name"

	medicines := []domain.Medicine{}
	if err := s.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return medicines, nil
}

func (s *MedicineStore) Get(ctx context.Context, id string) (*domain.Medicine, error) {
	var medicine domain.Medicine
	err := s.db.GetContext(ctx, &medicine, `SELECT `+medicineColumns+` FROM medicines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load medicine: %w", err)
	}
	return &medicine, nil
}

func (s *MedicineStore) Create(ctx context.Context, m *domain.Medicine) error {
	m.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO medicines (id, name, category, price, stock_level, requires_prescription, expiry_date, description, manufacturer) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Category, m.Price, m.StockLevel, m.RequiresPrescription, m.ExpiryDate, m.Description, m.Manufacturer)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("medicine %q already exists", m.Name)
		}
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

func (s *MedicineStore) Update(ctx context.Context, m *domain.Medicine) error {
	res, err := s.db.ExecContext(ctx, `UPDATE medicines SET name = ?, category = ?, price = ?, requires_prescription = ?, expiry_date = ?, description = ?, manufacturer = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		m.Name, m.Category, m.Price, m.RequiresPrescription, m.ExpiryDate, m.Description, m.Manufacturer, m.ID)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock applies a delta to a medicine's stock level, clamped at
// zero, and writes the audit trail row. Returns the resulting stock.
func (s *MedicineStore) AdjustStock(ctx context.Context, id string, change int64, performedBy string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin stock adjustment: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.GetContext(ctx, &current, `SELECT stock_level FROM medicines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load stock level: %w", err)
	}

	next := current + change
	if next < 0 {
		next = 0
	}
	if next == current {
		return current, nil
	}

	_, err = tx.ExecContext(ctx, `UPDATE medicines SET stock_level = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, next, id)
	if err != nil {
		return 0, fmt.Errorf("update stock level: %w", err)
	}

	action := domain.InventoryActionAdjustment
	if change > 0 {
		action = domain.InventoryActionRestock
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO inventory_logs (id, medicine_id, action, quantity_change, previous_stock, new_stock, performed_by) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), id, action, next-current, current, next, performedBy)
	if err != nil {
		return 0, fmt.Errorf("write inventory log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit stock adjustment: %w", err)
	}
	return next, nil
}

// Expiring lists in-stock medicines whose expiry date falls within the
// given number of days from today.
func (s *MedicineStore) Expiring(ctx context.Context, days int) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	query := `SELECT ` + medicineColumns + ` FROM medicines
	          WHERE stock_level > 0
	          AND expiry_date IS NOT NULL
	          AND expiry_date <= date('now', '+' || ? || ' day')
	          ORDER BY expiry_date`
	if err := s.db.SelectContext(ctx, &medicines, query, days); err != nil {
		return nil, fmt.Errorf("list expiring medicines: %w", err)
	}
	return medicines, nil
}

func (s *MedicineStore) Logs(ctx context.Context, limit int) ([]domain.InventoryLog, error) {
	if limit <= 0 {
		limit = 100
	}
	logs := []domain.InventoryLog{}
	query := `SELECT l.id, l.medicine_id, m.name AS medicine_name, l.action, l.quantity_change, l.previous_stock, l.new_stock, l.performed_by, l.created_at
	          FROM inventory_logs l
	          JOIN medicines m ON m.id = l.medicine_id
	          ORDER BY l.created_at DESC, l.id DESC LIMIT ?`
	if err := s.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, fmt.Errorf("list inventory logs: %w", err)
	}
	return logs, nil
}
