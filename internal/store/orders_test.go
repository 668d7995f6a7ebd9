package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"pharmacart/m/domain"
)

func TestCheckoutCreatesOrderInvoiceAndDeductsStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartStore(db)
	orders := NewOrderStore(db)

	userID := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	medA := seedMedicine(t, db, domain.Medicine{Name: "Aspirin", Category: "Pain Relief", Price: 9.99, StockLevel: 10})
	medB := seedMedicine(t, db, domain.Medicine{Name: "Loratadine", Category: "Allergy", Price: 4.50, StockLevel: 7})

	// cart = [{A, qty 2}, {B, qty 1}]
	_, err := carts.Add(ctx, userID, medA)
	require.NoError(t, err)
	_, err = carts.Add(ctx, userID, medA)
	require.NoError(t, err)
	_, err = carts.Add(ctx, userID, medB)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, userID)
	require.NoError(t, err)

	assert.InDelta(t, 24.48, order.TotalAmount, 0.001)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)

	require.Len(t, order.Items, 2)
	byMedicine := map[string]domain.OrderItem{}
	for _, item := range order.Items {
		byMedicine[item.MedicineID] = item
	}
	assert.EqualValues(t, 2, byMedicine[medA].Quantity)
	assert.InDelta(t, 9.99, byMedicine[medA].UnitPrice, 0.001)
	assert.EqualValues(t, 1, byMedicine[medB].Quantity)
	assert.InDelta(t, 4.50, byMedicine[medB].UnitPrice, 0.001)

	require.NotNil(t, order.Invoice)
	assert.True(t, strings.HasPrefix(order.Invoice.InvoiceNumber, "INV-"))
	assert.InDelta(t, 24.48, order.Invoice.TotalAmount, 0.001)
	assert.Equal(t, "generated", order.Invoice.Status)

	// Stock deducted, cart cleared, deductions audited.
	assert.EqualValues(t, 8, stockLevel(t, db, medA))
	assert.EqualValues(t, 6, stockLevel(t, db, medB))
	assert.EqualValues(t, 0, countRows(t, db, "cart_items"))

	medicines := NewMedicineStore(db)
	logs, err := medicines.Logs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, domain.InventoryActionSale, entry.Action)
		assert.Equal(t, entry.PreviousStock+entry.QuantityChange, entry.NewStock)
	}
}

func TestCheckoutSnapshotsUnitPrice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartStore(db)
	orders := NewOrderStore(db)

	userID := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	medID := seedMedicine(t, db, domain.Medicine{Name: "Cetirizine", Price: 7.25, StockLevel: 5})

	_, err := carts.Add(ctx, userID, medID)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, userID)
	require.NoError(t, err)

	// A later price change must not affect the recorded order.
	_, err = db.Exec(`UPDATE medicines SET price = 99.99 WHERE id = ?`, medID)
	require.NoError(t, err)

	reloaded, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.InDelta(t, 7.25, reloaded.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 7.25, reloaded.TotalAmount, 0.001)
}

func TestCheckoutEmptyCartIsNoOp(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)

	userID := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	_, err := orders.Checkout(context.Background(), userID)
	require.ErrorIs(t, err, ErrEmptyCart)

	assert.EqualValues(t, 0, countRows(t, db, "orders"))
	assert.EqualValues(t, 0, countRows(t, db, "invoices"))
}

func TestCheckoutInsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartStore(db)
	orders := NewOrderStore(db)

	userID := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	medID := seedMedicine(t, db, domain.Medicine{Name: "Insulin", Price: 29.99, StockLevel: 5})

	item, err := carts.Add(ctx, userID, medID)
	require.NoError(t, err)
	require.NoError(t, carts.UpdateQuantity(ctx, userID, item.ID, 10))

	_, err = orders.Checkout(ctx, userID)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing persisted: no orphan order, stock and cart untouched.
	assert.EqualValues(t, 0, countRows(t, db, "orders"))
	assert.EqualValues(t, 0, countRows(t, db, "order_items"))
	assert.EqualValues(t, 0, countRows(t, db, "invoices"))
	assert.EqualValues(t, 0, countRows(t, db, "inventory_logs"))
	assert.EqualValues(t, 5, stockLevel(t, db, medID))
	assert.EqualValues(t, 1, countRows(t, db, "cart_items"))
}

func TestConcurrentCheckoutsCannotOversellLastUnit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartStore(db)
	orders := NewOrderStore(db)

	alice := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	bob := seedUser(t, db, "bob@example.com", domain.RoleCustomer)
	medID := seedMedicine(t, db, domain.Medicine{Name: "EpiPen", Price: 89.00, StockLevel: 1})

	_, err := carts.Add(ctx, alice, medID)
	require.NoError(t, err)
	_, err = carts.Add(ctx, bob, medID)
	require.NoError(t, err)

	var g errgroup.Group
	results := make(chan error, 2)
	for _, userID := range []string{alice, bob} {
		userID := userID
		g.Go(func() error {
			_, err := orders.Checkout(ctx, userID)
			results <- err
			return nil
		})
	}
	require.NoError(t, g.Wait())
	close(results)

	var successes, stockFailures int
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrInsufficientStock)
			stockFailures++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, stockFailures)
	assert.EqualValues(t, 0, stockLevel(t, db, medID))
	assert.EqualValues(t, 1, countRows(t, db, "orders"))
	assert.EqualValues(t, 1, countRows(t, db, "invoices"))
}
