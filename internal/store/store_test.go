package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"pharmacart/m/domain"
	"pharmacart/m/internal/migrations"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	migrations.Run(db)
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, email, role string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO users (id, username, email, password, role) VALUES (?, ?, ?, 'x', ?)`,
		id, email, email, role)
	require.NoError(t, err)
	return id
}

func seedMedicine(t *testing.T, db *sqlx.DB, m domain.Medicine) string {
	t.Helper()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := db.Exec(`INSERT INTO medicines (id, name, category, price, stock_level, requires_prescription, expiry_date, description, manufacturer) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Category, m.Price, m.StockLevel, m.RequiresPrescription, m.ExpiryDate, m.Description, m.Manufacturer)
	require.NoError(t, err)
	return m.ID
}

func countRows(t *testing.T, db *sqlx.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func stockLevel(t *testing.T, db *sqlx.DB, medicineID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Get(&n, `SELECT stock_level FROM medicines WHERE id = ?`, medicineID))
	return n
}
