package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"pharmacart/m/internal/migrations"
)

const sampleCSV = `name,category,price,stock_level,requires_prescription,expiry_date,description,manufacturer
Aspirin,Pain Relief,9.99,120,false,2027-03-01,Headache and fever relief,Bayer
Amoxicillin,Antibiotics,12.50,40,true,2026-11-15,Broad-spectrum antibiotic,GSK
,Pain Relief,1.00,10,false,,,Acme
Loratadine,Allergy,4.50,75,false,,Non-drowsy antihistamine,Claritin
`

func TestLoadMedicinesSkipsBadRowsAndDuplicates(t *testing.T) {
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	migrations.Run(db)

	path := filepath.Join(t.TempDir(), "medicines.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	LoadMedicines(db, path)

	var count int64
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM medicines`))
	assert.EqualValues(t, 3, count) // nameless row skipped

	var rx bool
	require.NoError(t, db.Get(&rx, `SELECT requires_prescription FROM medicines WHERE name = 'Amoxicillin'`))
	assert.True(t, rx)

	// Re-running the seed is a no-op.
	LoadMedicines(db, path)
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM medicines`))
	assert.EqualValues(t, 3, count)
}

func TestLoadMedicinesMissingFileIsNonFatal(t *testing.T) {
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	migrations.Run(db)

	LoadMedicines(db, "does-not-exist.csv")

	var count int64
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM medicines`))
	assert.EqualValues(t, 0, count)
}
