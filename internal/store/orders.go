package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pharmacart/m/domain"
)

type OrderStore struct {
	db *sqlx.DB
}

func NewOrderStore(db *sqlx.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Checkout converts the user's cart into a persisted order, deducts
// inventory, and produces an invoice. The whole sequence runs inside a
// single transaction: a failure at any step rolls everything back, and
// the stock decrement is conditional so concurrent checkouts cannot
// oversell the last units.
func (s *OrderStore) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	var lines []cartItemRow
	if err := tx.SelectContext(ctx, &lines, cartItemQuery, userID); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	var total float64
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}

	orderID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `INSERT INTO orders (id, customer_id, total_amount, status, payment_status) VALUES (?, ?, ?, ?, ?)`,
		orderID, userID, total, domain.OrderStatusPending, domain.PaymentStatusPending)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for _, line := range lines {
		_, err = tx.ExecContext(ctx, `INSERT INTO order_items (id, order_id, medicine_id, quantity, unit_price) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), orderID, line.MedicineID, line.Quantity, line.Price)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}

		res, err := tx.ExecContext(ctx, `UPDATE medicines SET stock_level = stock_level - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND stock_level >= ?`,
			line.Quantity, line.MedicineID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, fmt.Errorf("%s: %w", line.Name, ErrInsufficientStock)
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO inventory_logs (id, medicine_id, action, quantity_change, previous_stock, new_stock, performed_by) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), line.MedicineID, domain.InventoryActionSale, -line.Quantity, line.StockLevel, line.StockLevel-line.Quantity, userID)
		if err != nil {
			return nil, fmt.Errorf("write inventory log: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	invoiceNumber := fmt.Sprintf("INV-%d", time.Now().UnixMilli())
	_, err = tx.ExecContext(ctx, `INSERT INTO invoices (id, order_id, invoice_number, total_amount, status) VALUES (?, ?, ?, ?, 'generated')`,
		uuid.NewString(), orderID, invoiceNumber, total)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE orders SET status = ?, payment_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		domain.OrderStatusConfirmed, domain.PaymentStatusPaid, orderID)
	if err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	return s.Get(ctx, orderID)
}

// List returns orders newest-first with items and invoice attached.
// An empty customerID returns every order (staff view).
func (s *OrderStore) List(ctx context.Context, customerID string) ([]domain.Order, error) {
	query := `SELECT id, customer_id, total_amount, status, payment_status, created_at, updated_at FROM orders`
	var args []any
	if customerID != "" {
		query += ` WHERE customer_id = ?`
		args = append(args, customerID)
	}
	query += ` ORDER BY created_at DESC, id`

	orders := []domain.Order{}
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}

	itemsQuery, itemsArgs, err := sqlx.In(`SELECT oi.id, oi.order_id, oi.medicine_id, m.name AS medicine_name, oi.quantity, oi.unit_price, oi.created_at
	    FROM order_items oi
	    JOIN medicines m ON m.id = oi.medicine_id
	   WHERE oi.order_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("prepare order items query: %w", err)
	}
	var items []domain.OrderItem
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(itemsQuery), itemsArgs...); err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	itemsByOrder := make(map[string][]domain.OrderItem)
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	invQuery, invArgs, err := sqlx.In(`SELECT id, order_id, invoice_number, total_amount, status, created_at FROM invoices WHERE order_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("prepare invoices query: %w", err)
	}
	var invoices []domain.Invoice
	if err := s.db.SelectContext(ctx, &invoices, s.db.Rebind(invQuery), invArgs...); err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	invoiceByOrder := make(map[string]domain.Invoice)
	for _, inv := range invoices {
		invoiceByOrder[inv.OrderID] = inv
	}

	for i := range orders {
		items := itemsByOrder[orders[i].ID]
		if items == nil {
			items = []domain.OrderItem{}
		}
		orders[i].Items = items
		if inv, ok := invoiceByOrder[orders[i].ID]; ok {
			invCopy := inv
			orders[i].Invoice = &invCopy
		}
	}
	return orders, nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := s.db.GetContext(ctx, &order, `SELECT id, customer_id, total_amount, status, payment_status, created_at, updated_at FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	order.Items = []domain.OrderItem{}
	err = s.db.SelectContext(ctx, &order.Items, `SELECT oi.id, oi.order_id, oi.medicine_id, m.name AS medicine_name, oi.quantity, oi.unit_price, oi.created_at
	    FROM order_items oi
	    JOIN medicines m ON m.id = oi.medicine_id
	   WHERE oi.order_id = ? ORDER BY oi.created_at, oi.id`, id)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	var invoice domain.Invoice
	err = s.db.GetContext(ctx, &invoice, `SELECT id, order_id, invoice_number, total_amount, status, created_at FROM invoices WHERE order_id = ?`, id)
	if err == nil {
		order.Invoice = &invoice
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load invoice: %w", err)
	}

	return &order, nil
}
