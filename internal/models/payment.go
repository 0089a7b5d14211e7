package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentType tells which slice of the order total a payment settles.
type PaymentType string

const (
	PaymentTypeDownPayment PaymentType = "down_payment"
	PaymentTypeRemaining   PaymentType = "remaining_payment"
	PaymentTypeFull        PaymentType = "full_payment"
)

// Payment is one entry in the append-only payment ledger of an order:
// a gateway attempt or a manual cashier entry. A paid entry is immutable
// except for an administrative refund. The most recent entry per
// (order, payment type) is the one reflected in the order's summary.
type Payment struct {
	BaseModel
	OrderID uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Order   *Order    `json:"order,omitempty"`

	PaymentType PaymentType   `json:"payment_type"`
	Amount      float64       `json:"amount"`
	Method      string        `json:"method"`
	Status      PaymentStatus `gorm:"default:pending" json:"status"`

	// Gateway fields. ExternalTransactionID is the gateway's id and is
	// unique when present; duplicate notifications update the same row.
	ExternalTransactionID *string `gorm:"uniqueIndex" json:"external_transaction_id"`
	SnapToken             string  `json:"snap_token"`
	RedirectURL           string  `json:"redirect_url"`
	GatewayStatus         string  `json:"gateway_status"`

	// Manual-entry verification trail.
	IsVerified     bool       `json:"is_verified"`
	VerifiedByID   *uuid.UUID `gorm:"type:uuid" json:"verified_by_id"`
	VerifiedByName string     `json:"verified_by_name"`
	VerifiedAt     *time.Time `json:"verified_at"`

	PaidAt *time.Time `json:"paid_at"`
}
