package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
	"github.com/example/konveksi/internal/orders"
	"github.com/example/konveksi/internal/status"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role models.Role
}

// OrderService owns order creation and the status workflow. All mutations
// of one order run inside a transaction holding a row lock on it, which is
// the per-order serialization boundary against racing payment events.
type OrderService struct {
	db          *gorm.DB
	telegram    *TelegramService
	orderPrefix string
	dpPercent   float64
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB, telegram *TelegramService, orderPrefix string, dpPercent float64) *OrderService {
	return &OrderService{db: db, telegram: telegram, orderPrefix: orderPrefix, dpPercent: dpPercent}
}

// DownPaymentInput is the requested payment shape for a new order.
type DownPaymentInput struct {
	Required bool       `json:"required"`
	Percent  float64    `json:"percent"`
	DueDate  *time.Time `json:"due_date"`
}

// CreateOrderInput is everything needed to create an order. Supplied
// subtotal/total come from pre-priced checkout clients and are only
// accepted after the server-side recomputation agrees.
type CreateOrderInput struct {
	CustomerName            string             `json:"customer_name"`
	CustomerPhone           string             `json:"customer_phone"`
	ShippingAddress         string             `json:"shipping_address"`
	ShippingCity            string             `json:"shipping_city"`
	Items                   []orders.ItemInput `json:"items" validate:"required,min=1,dive"`
	DiscountPercent         float64            `json:"discount_percent"`
	DownPayment             DownPaymentInput   `json:"down_payment"`
	Subtotal                *float64           `json:"subtotal"`
	Total                   *float64           `json:"total"`
	Notes                   string             `json:"notes"`
	EstimatedCompletionDate *time.Time         `json:"estimated_completion_date"`
	IsOffline               bool               `json:"-"`
}

// Create validates, prices and persists a new order in status received.
func (s *OrderService) Create(ctx context.Context, actor Actor, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	if !in.IsOffline && in.ShippingAddress == "" {
		return nil, apperr.Validation("shipping address is required")
	}

	now := time.Now()
	order := &models.Order{
		UserID:                  actor.ID,
		CustomerName:            in.CustomerName,
		CustomerPhone:           in.CustomerPhone,
		ShippingAddress:         in.ShippingAddress,
		ShippingCity:            in.ShippingCity,
		Status:                  models.StatusReceived,
		Verification:            models.VerificationPending,
		DiscountPercent:         in.DiscountPercent,
		IsOfflineOrder:          in.IsOffline,
		EstimatedCompletionDate: in.EstimatedCompletionDate,
		Notes:                   in.Notes,
		PlacedAt:                now,
	}
	if order.CustomerName == "" {
		order.CustomerName = actor.Name
	}

	order.Payment.DownPaymentRequired = in.DownPayment.Required
	order.Payment.DownPaymentPercent = in.DownPayment.Percent
	if in.DownPayment.Required && in.DownPayment.Percent <= 0 {
		order.Payment.DownPaymentPercent = s.dpPercent
	}
	order.Payment.RemainingDueDate = in.DownPayment.DueDate
	order.Payment.DownPaymentStatus = models.PaymentPending
	order.Payment.RemainingStatus = models.PaymentPending

	for _, itemIn := range in.Items {
		productID, err := uuid.Parse(itemIn.ProductID)
		if err != nil {
			return nil, apperr.Validation("invalid product id %q", itemIn.ProductID)
		}

		var product models.Product
		if err := s.db.WithContext(ctx).
			Preload("Sizes").Preload("Colors").Preload("Materials").Preload("SKUs").
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("product %s not found", itemIn.ProductID)
			}
			return nil, err
		}

		item, err := orders.BuildItem(&product, itemIn)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	orders.Reconcile(order)
	if err := orders.CheckSuppliedTotals(order, in.Subtotal, in.Total); err != nil {
		return nil, err
	}

	order.StatusHistory = append(order.StatusHistory, models.OrderStatusHistory{
		Status:      models.StatusReceived,
		ChangedByID: actor.ID,
		ChangedBy:   actor.Name,
		Role:        actor.Role,
		Notes:       "order received",
	})

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq := 1
		var last models.Order
		dayPrefix := orders.DayPrefix(s.orderPrefix, now)
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_number LIKE ?", dayPrefix+"%").
			Order("order_number desc").
			First(&last).Error
		if err == nil {
			seq = orders.NextSequence(last.OrderNumber)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		order.OrderNumber = orders.Number(s.orderPrefix, now, seq)
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.telegram.NotifyNewOrder(order); err != nil {
			log.Printf("[Order] Telegram notification failed for %s: %v", order.OrderNumber, err)
		}
	}()

	return order, nil
}

// UpdateStatus applies a role-gated status change and appends one history
// entry. An empty or unchanged status is a notes-only update, which any
// role may perform.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, newStatus models.OrderStatus, notes string) (*models.Order, error) {
	var order models.Order
	previous := models.OrderStatus("")

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %s not found", orderID)
			}
			return err
		}
		previous = order.Status

		notesOnly := newStatus == "" || newStatus == order.Status
		if !notesOnly {
			var paidCount int64
			if err := tx.Model(&models.Payment{}).
				Where("order_id = ? AND status = ?", orderID, models.PaymentPaid).
				Count(&paidCount).Error; err != nil {
				return err
			}
			hasPaidPayment := paidCount > 0 || order.Payment.DownPaymentStatus == models.PaymentPaid ||
				order.Payment.RemainingStatus == models.PaymentPaid

			if err := status.CanTransition(actor.Role, order.Status, newStatus, order.Payment.IsPaid, hasPaidPayment); err != nil {
				return err
			}
			order.Status = newStatus
		}

		history := models.OrderStatusHistory{
			OrderID:     order.ID,
			Status:      order.Status,
			ChangedByID: actor.ID,
			ChangedBy:   actor.Name,
			Role:        actor.Role,
			Notes:       notes,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	if previous != order.Status {
		go func() {
			if err := s.telegram.NotifyStatusChanged(&order, previous, actor.Name); err != nil {
				log.Printf("[Order] Telegram notification failed for %s: %v", order.OrderNumber, err)
			}
		}()
	}

	return &order, nil
}

// Cancel moves an order to cancelled under the cancellation preconditions:
// still received, nothing paid. Customers may only cancel their own orders.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID, reason string) (*models.Order, error) {
	if actor.Role == models.RoleCustomer {
		var order models.Order
		if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("order %s not found", orderID)
			}
			return nil, err
		}
		if order.UserID != actor.ID {
			return nil, apperr.NotFound("order %s not found", orderID)
		}
	}

	if reason == "" {
		reason = "order cancelled"
	}
	return s.UpdateStatus(ctx, actor, orderID, models.StatusCancelled, reason)
}
