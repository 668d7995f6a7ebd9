package domain

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type Order struct {
	ID            string      `db:"id" json:"id"`
	CustomerID    string      `db:"customer_id" json:"customer_id"`
	TotalAmount   float64     `db:"total_amount" json:"total_amount"`
	Status        string      `db:"status" json:"status"`
	PaymentStatus string      `db:"payment_status" json:"payment_status"`
	CreatedAt     string      `db:"created_at" json:"created_at"`
	UpdatedAt     string      `db:"updated_at" json:"updated_at"`
	Items         []OrderItem `db:"-" json:"items,omitempty"`
	Invoice       *Invoice    `db:"-" json:"invoice,omitempty"`
}

// OrderItem snapshots a cart line at order time; unit_price is the
// medicine's price at purchase, decoupled from its live price.
type OrderItem struct {
	ID           string  `db:"id" json:"id"`
	OrderID      string  `db:"order_id" json:"order_id"`
	MedicineID   string  `db:"medicine_id" json:"medicine_id"`
	MedicineName string  `db:"medicine_name" json:"medicine_name,omitempty"`
	Quantity     int64   `db:"quantity" json:"quantity"`
	UnitPrice    float64 `db:"unit_price" json:"unit_price"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
}
