package domain

// Access tiers gating view visibility.
const (
	RoleCustomer    = "customer"
	RolePharmacist  = "pharmacist"
	RoleAdmin       = "admin"
	RoleSystemAdmin = "system_admin"
)

type User struct {
	ID        string `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Email     string `db:"email" json:"email"`
	Password  string `db:"password" json:"password,omitempty"`
	Role      string `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"created_at,omitempty"`
}

type Profile struct {
	ID        string  `db:"id" json:"id"`
	UserID    string  `db:"user_id" json:"user_id"`
	Username  string  `db:"username" json:"username"`
	Email     string  `db:"email" json:"email"`
	Phone     *string `db:"phone" json:"phone,omitempty"`
	Address   *string `db:"address" json:"address,omitempty"`
	LicenseNo *string `db:"license_no" json:"license_no,omitempty"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	UpdatedAt string  `db:"updated_at" json:"updated_at"`
}
