package domain

type Invoice struct {
	ID            string  `db:"id" json:"id"`
	OrderID       string  `db:"order_id" json:"order_id"`
	InvoiceNumber string  `db:"invoice_number" json:"invoice_number"`
	TotalAmount   float64 `db:"total_amount" json:"total_amount"`
	Status        string  `db:"status" json:"status"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}
