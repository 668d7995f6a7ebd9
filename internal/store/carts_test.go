package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacart/m/domain"
)

func TestAddToCartMergesDuplicateLines(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartStore(db)

	userID := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	medID := seedMedicine(t, db, domain.Medicine{Name: "Paracetamol", Category: "Pain Relief", Price: 4.99, StockLevel: 50})

	first, err := carts.Add(ctx, userID, medID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Quantity)

	second, err := carts.Add(ctx, userID, medID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Quantity)
	assert.Equal(t, first.ID, second.ID)

	items, err := carts.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 2, items[0].Quantity)
	require.NotNil(t, items[0].Medicine)
	assert.Equal(t, "Paracetamol", items[0].Medicine.Name)
}

func TestAddToCartBlockedForPrescriptionMedicine(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartStore(db)

	userID := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	medID := seedMedicine(t, db, domain.Medicine{Name: "Amoxicillin", Category: "Antibiotics", Price: 12.50, StockLevel: 30, RequiresPrescription: true})

	_, err := carts.Add(ctx, userID, medID)
	require.ErrorIs(t, err, ErrPrescriptionRequired)

	// No write attempted.
	assert.EqualValues(t, 0, countRows(t, db, "cart_items"))
}

func TestAddToCartUnknownMedicine(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartStore(db)

	userID := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	_, err := carts.Add(context.Background(), userID, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateQuantityEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartStore(db)

	alice := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	bob := seedUser(t, db, "bob@example.com", domain.RoleCustomer)
	medID := seedMedicine(t, db, domain.Medicine{Name: "Ibuprofen", Price: 6.25, StockLevel: 40})

	item, err := carts.Add(ctx, alice, medID)
	require.NoError(t, err)

	require.ErrorIs(t, carts.UpdateQuantity(ctx, bob, item.ID, 3), ErrNotFound)
	require.NoError(t, carts.UpdateQuantity(ctx, alice, item.ID, 3))

	items, err := carts.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 3, items[0].Quantity)
}

func TestRemoveAndClearCart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartStore(db)

	userID := seedUser(t, db, "alice@example.com", domain.RoleCustomer)
	medA := seedMedicine(t, db, domain.Medicine{Name: "Vitamin C", Price: 3.99, StockLevel: 80})
	medB := seedMedicine(t, db, domain.Medicine{Name: "Vitamin D", Price: 5.49, StockLevel: 60})

	itemA, err := carts.Add(ctx, userID, medA)
	require.NoError(t, err)
	_, err = carts.Add(ctx, userID, medB)
	require.NoError(t, err)

	require.NoError(t, carts.Remove(ctx, userID, itemA.ID))
	items, err := carts.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, carts.Clear(ctx, userID))
	items, err = carts.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
