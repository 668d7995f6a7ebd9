package domain

type Medicine struct {
	ID                   string  `db:"id" json:"id"`
	Name                 string  `db:"name" json:"name"`
	Category             string  `db:"category" json:"category"`
	Price                float64 `db:"price" json:"price"`
	StockLevel           int64   `db:"stock_level" json:"stock_level"`
	RequiresPrescription bool    `db:"requires_prescription" json:"requires_prescription"`
	ExpiryDate           *string `db:"expiry_date" json:"expiry_date,omitempty"`
	Description          string  `db:"description" json:"description"`
	Manufacturer         string  `db:"manufacturer" json:"manufacturer"`
	CreatedAt            string  `db:"created_at" json:"created_at"`
	UpdatedAt            string  `db:"updated_at" json:"updated_at"`
}
