package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LoadMedicines ingests the CSV into the medicines table, ignoring duplicates.
// Expected columns: name, category, price, stock_level, requires_prescription,
// expiry_date, description, manufacturer.
func LoadMedicines(db *sqlx.DB, csvPath string) {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load medicine catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read medicine header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start medicine transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO medicines (id, name, category, price, stock_level, requires_prescription, expiry_date, description, manufacturer) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare medicine insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read medicine row: %v", err)
			continue
		}
		if len(record) < 8 {
			continue
		}
		name := strings.TrimSpace(record[0])
		category := strings.TrimSpace(record[1])
		price, _ := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		stock, _ := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		requiresRx := strings.EqualFold(strings.TrimSpace(record[4]), "true")
		expiry := strings.TrimSpace(record[5])
		description := strings.TrimSpace(record[6])
		manufacturer := strings.TrimSpace(record[7])

		if name == "" || price < 0 || stock < 0 {
			continue
		}

		var expiryVal *string
		if expiry != "" {
			expiryVal = &expiry
		}

		if _, err := stmt.Exec(uuid.NewString(), name, category, price, stock, requiresRx, expiryVal, description, manufacturer); err != nil {
			log.Printf("unable to insert medicine %s: %v", name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit medicine seed: %v", err)
	} else {
		log.Printf("seeded medicine catalog with %d rows", rows)
	}
}
