package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the production status of an order.
type OrderStatus string

const (
	StatusReceived       OrderStatus = "received"
	StatusProcessing     OrderStatus = "processing"
	StatusProductionDone OrderStatus = "production_done"
	StatusReadyToShip    OrderStatus = "ready_to_ship"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
)

// VerificationStatus tracks whether a human has confirmed the order's
// payments. Separate from the production status.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// PaymentStatus is the settlement state of a payment or sub-payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentExpired  PaymentStatus = "expired"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentSummary carries the financial state of an order. Embedded into the
// orders table so every save keeps the amounts and the flags together.
type PaymentSummary struct {
	Subtotal            float64       `json:"subtotal"`
	Discount            float64       `json:"discount"`
	CustomFees          float64       `json:"custom_fees"`
	Total               float64       `json:"total"`
	DownPaymentRequired bool          `json:"down_payment_required"`
	DownPaymentPercent  float64       `json:"down_payment_percent"`
	DownPaymentAmount   float64       `json:"down_payment_amount"`
	DownPaymentStatus   PaymentStatus `gorm:"default:pending" json:"down_payment_status"`
	DownPaymentPaidAt   *time.Time    `json:"down_payment_paid_at"`
	DownPaymentMethod   string        `json:"down_payment_method"`
	RemainingAmount     float64       `json:"remaining_amount"`
	RemainingDueDate    *time.Time    `json:"remaining_due_date"`
	RemainingStatus     PaymentStatus `gorm:"default:pending" json:"remaining_status"`
	RemainingPaidAt     *time.Time    `json:"remaining_paid_at"`
	RemainingMethod     string        `json:"remaining_method"`
	IsPaid              bool          `json:"is_paid"`
}

// Order is one manufacturing order.
type Order struct {
	BaseModel
	OrderNumber             string               `gorm:"uniqueIndex" json:"order_number"`
	UserID                  uuid.UUID            `gorm:"type:uuid;index" json:"user_id"`
	User                    *User                `json:"user,omitempty"`
	CustomerName            string               `json:"customer_name"`
	CustomerPhone           string               `json:"customer_phone"`
	ShippingAddress         string               `json:"shipping_address"`
	ShippingCity            string               `json:"shipping_city"`
	Status                  OrderStatus          `gorm:"index" json:"status"`
	Verification            VerificationStatus   `gorm:"column:verification_status;default:pending" json:"verification_status"`
	Items                   []OrderItem          `json:"items,omitempty"`
	StatusHistory           []OrderStatusHistory `json:"status_history,omitempty"`
	Payment                 PaymentSummary       `gorm:"embedded" json:"payment_details"`
	DiscountPercent         float64              `json:"discount_percent"`
	IsOfflineOrder          bool                 `json:"is_offline_order"`
	EstimatedCompletionDate *time.Time           `json:"estimated_completion_date"`
	Notes                   string               `json:"notes"`
	PlacedAt                time.Time            `json:"placed_at"`
}

// OrderItem is one configured product line inside an order. The Price*
// columns are the authoritative output of the price engine for this line.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID *uuid.UUID `gorm:"type:uuid" json:"product_id"`

	ProductName string `json:"product_name"`
	SKUCode     string `json:"sku_code"`
	Color       string `json:"color"`
	Material    string `json:"material"`

	SizeBreakdown []SizeBreakdownEntry `json:"size_breakdown,omitempty"`
	Quantity      int                  `json:"quantity"`
	UnitPrice     float64              `json:"unit_price"`
	DozenPrice    float64              `json:"dozen_price"`
	MaterialPrice float64              `json:"material_price"`

	IsCustomDesign   bool    `json:"is_custom_design"`
	DesignRef        string  `json:"design_ref"`
	CustomFeePerUnit float64 `json:"custom_fee_per_unit"`

	PriceSubtotal       float64 `json:"price_subtotal"`
	PriceDozenCount     int     `json:"price_dozen_count"`
	PriceCustomFeeTotal float64 `json:"price_custom_fee_total"`
	PriceDiscount       float64 `json:"price_discount"`
	PriceDiscountPct    float64 `json:"price_discount_pct"`
	PriceTotal          float64 `json:"price_total"`
}

// SizeBreakdownEntry is the requested quantity for one size within an item,
// plus how the price engine split it between the dozen and unit tiers.
type SizeBreakdownEntry struct {
	BaseModel
	OrderItemID     uuid.UUID `gorm:"type:uuid;index" json:"order_item_id"`
	Size            string    `json:"size"`
	Quantity        int       `json:"quantity"`
	AdditionalPrice float64   `json:"additional_price"`
	DozenQuantity   int       `json:"dozen_quantity"`
	UnitQuantity    int       `json:"unit_quantity"`
	Subtotal        float64   `json:"subtotal"`
}

// OrderStatusHistory is one append-only entry in an order's status log.
// Written on every transition, including notes-only updates.
type OrderStatusHistory struct {
	BaseModel
	OrderID     uuid.UUID   `gorm:"type:uuid;index" json:"order_id"`
	Status      OrderStatus `json:"status"`
	ChangedByID uuid.UUID   `gorm:"type:uuid" json:"changed_by_id"`
	ChangedBy   string      `json:"changed_by"`
	Role        Role        `json:"role"`
	Notes       string      `json:"notes"`
}
