package domain

// CartItem is a pending purchase line for one user/medicine pair.
// One row exists per pair; re-adding a medicine bumps the quantity.
type CartItem struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	MedicineID string    `db:"medicine_id" json:"medicine_id"`
	Quantity   int64     `db:"quantity" json:"quantity"`
	CreatedAt  string    `db:"created_at" json:"created_at"`
	Medicine   *Medicine `db:"-" json:"medicine,omitempty"`
}
