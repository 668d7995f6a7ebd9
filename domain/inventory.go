package domain

const (
	InventoryActionRestock    = "restock"
	InventoryActionAdjustment = "adjustment"
	InventoryActionSale       = "sale"
)

// InventoryLog is the audit trail for every stock mutation, whether a
// manual adjustment or a checkout deduction.
type InventoryLog struct {
	ID             string  `db:"id" json:"id"`
	MedicineID     string  `db:"medicine_id" json:"medicine_id"`
	MedicineName   string  `db:"medicine_name" json:"medicine_name,omitempty"`
	Action         string  `db:"action" json:"action"`
	QuantityChange int64   `db:"quantity_change" json:"quantity_change"`
	PreviousStock  int64   `db:"previous_stock" json:"previous_stock"`
	NewStock       int64   `db:"new_stock" json:"new_stock"`
	PerformedBy    *string `db:"performed_by" json:"performed_by,omitempty"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
}
