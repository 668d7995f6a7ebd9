package domain

type Supplier struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	ContactInfo *string `db:"contact_info" json:"contact_info,omitempty"`
	Email       *string `db:"email" json:"email,omitempty"`
	Address     *string `db:"address" json:"address,omitempty"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}
