package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pharmacart/m/domain"
)

type CartStore struct {
	db *sqlx.DB
}

func NewCartStore(db *sqlx.DB) *CartStore {
	return &CartStore{db: db}
}

type cartItemRow struct {
	ID                   string  `db:"id"`
	UserID               string  `db:"user_id"`
	MedicineID           string  `db:"medicine_id"`
	Quantity             int64   `db:"quantity"`
	CreatedAt            string  `db:"created_at"`
	Name                 string  `db:"name"`
	Category             string  `db:"category"`
	Price                float64 `db:"price"`
	StockLevel           int64   `db:"stock_level"`
	RequiresPrescription bool    `db:"requires_prescription"`
	ExpiryDate           *string `db:"expiry_date"`
	Description          string  `db:"description"`
	Manufacturer         string  `db:"manufacturer"`
}

const cartItemQuery = `SELECT c.id, c.user_id, c.medicine_id, c.quantity, c.created_at,
       m.name, m.category, m.price, m.stock_level, m.requires_prescription, m.expiry_date, m.description, m.manufacturer
  FROM cart_items c
  JOIN medicines m ON m.id = c.medicine_id
 WHERE c.user_id = ?
 ORDER BY c.created_at DESC, c.id`

func (r cartItemRow) item() domain.CartItem {
	return domain.CartItem{
		ID:         r.ID,
		UserID:     r.UserID,
		MedicineID: r.MedicineID,
		Quantity:   r.Quantity,
		CreatedAt:  r.CreatedAt,
		Medicine: &domain.Medicine{
			ID:                   r.MedicineID,
			Name:                 r.Name,
			Category:             r.Category,
			Price:                r.Price,
			StockLevel:           r.StockLevel,
			RequiresPrescription: r.RequiresPrescription,
			ExpiryDate:           r.ExpiryDate,
			Description:          r.Description,
			Manufacturer:         r.Manufacturer,
		},
	}
}

// List returns the user's cart newest-first, each line joined with its
// medicine.
func (s *CartStore) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var rows []cartItemRow
	if err := s.db.SelectContext(ctx, &rows, cartItemQuery, userID); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	items := make([]domain.CartItem, len(rows))
	for i, row := range rows {
		items[i] = row.item()
	}
	return items, nil
}

// Add puts one unit of a medicine in the user's cart. An existing row
// for the same user/medicine pair gets its quantity incremented.
// Prescription-gated medicines are rejected before any write.
func (s *CartStore) Add(ctx context.Context, userID, medicineID string) (*domain.CartItem, error) {
	var med struct {
		RequiresPrescription bool `db:"requires_prescription"`
	}
	err := s.db.GetContext(ctx, &med, `SELECT requires_prescription FROM medicines WHERE id = ?`, medicineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load medicine: %w", err)
	}
	if med.RequiresPrescription {
		return nil, ErrPrescriptionRequired
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO cart_items (id, user_id, medicine_id, quantity) VALUES (?, ?, ?, 1)
	    ON CONFLICT(user_id, medicine_id) DO UPDATE SET quantity = quantity + 1`,
		uuid.NewString(), userID, medicineID)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	var row cartItemRow
	err = s.db.GetContext(ctx, &row, `SELECT c.id, c.user_id, c.medicine_id, c.quantity, c.created_at,
	       m.name, m.category, m.price, m.stock_level, m.requires_prescription, m.expiry_date, m.description, m.manufacturer
	  FROM cart_items c JOIN medicines m ON m.id = c.medicine_id
	 WHERE c.user_id = ? AND c.medicine_id = ?`, userID, medicineID)
	if err != nil {
		return nil, fmt.Errorf("reload cart item: %w", err)
	}
	item := row.item()
	return &item, nil
}

func (s *CartStore) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int64) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE cart_items SET quantity = ? WHERE id = ? AND user_id = ?`, quantity, itemID, userID)
	if err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CartStore) Remove(ctx context.Context, userID, itemID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ? AND user_id = ?`, itemID, userID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
