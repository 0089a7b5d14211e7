package models

// Role identifies what an account may do with orders and payments.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCashier  Role = "cashier"
	RoleStaff    Role = "staff"
	RoleOwner    Role = "owner"
	RoleCustomer Role = "customer"
)

// User represents an account: customers placing orders and the shop
// personnel working on them.
type User struct {
	BaseModel
	Name         string  `json:"name"`
	Email        string  `gorm:"uniqueIndex" json:"email"`
	Phone        string  `gorm:"index" json:"phone"`
	PasswordHash string  `json:"-"`
	Role         Role    `gorm:"default:customer" json:"role"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	Orders       []Order `json:"orders,omitempty"`
}
