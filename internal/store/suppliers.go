package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pharmacart/m/domain"
)

type SupplierStore struct {
	db *sqlx.DB
}

func NewSupplierStore(db *sqlx.DB) *SupplierStore {
	return &SupplierStore{db: db}
}

func (s *SupplierStore) List(ctx context.Context) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	err := s.db.SelectContext(ctx, &suppliers, `SELECT id, name, contact_info, email, address, created_at FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *SupplierStore) Create(ctx context.Context, supplier *domain.Supplier) error {
	supplier.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO suppliers (id, name, contact_info, email, address) VALUES (?, ?, ?, ?, ?)`,
		supplier.ID, supplier.Name, supplier.ContactInfo, supplier.Email, supplier.Address)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}
