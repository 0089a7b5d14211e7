package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/middleware"
	"github.com/example/konveksi/internal/models"
	"github.com/example/konveksi/internal/services"
	"github.com/example/konveksi/internal/utils"
)

var validate = validator.New()

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db     *gorm.DB
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders}
}

// CreateOrder places an order for the authenticated customer.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req services.CreateOrderInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	order, err := h.orders.Create(c.Context(), actor, req)
	if err != nil {
		return apperr.ToFiber(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":                  order.ID,
			"order_number":        order.OrderNumber,
			"status":              order.Status,
			"subtotal":            order.Payment.Subtotal,
			"discount":            order.Payment.Discount,
			"total":               order.Payment.Total,
			"down_payment_amount": order.Payment.DownPaymentAmount,
			"remaining_amount":    order.Payment.RemainingAmount,
			"is_paid":             order.Payment.IsPaid,
		},
	})
}

// CreateManualOrder records an offline order taken at the counter.
func (h *OrderHandler) CreateManualOrder(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req services.CreateOrderInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	req.IsOffline = true

	order, err := h.orders.Create(c.Context(), actor, req)
	if err != nil {
		return apperr.ToFiber(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns orders visible to the actor: customers see their own,
// staff roles see everything.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})
	if actor.Role == models.RoleCustomer {
		query = query.Where("user_id = ?", actor.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns one order with items, breakdowns and history.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.loadOrderFor(actor, id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// UpdateStatus applies a role-gated status change, or appends a note when
// no status is supplied.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
		Notes  string             `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if actor.Role == models.RoleCustomer {
		if _, err := h.loadOrderFor(actor, id); err != nil {
			return err
		}
	}

	order, err := h.orders.UpdateStatus(c.Context(), actor, id, req.Status, req.Notes)
	if err != nil {
		return apperr.ToFiber(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// CancelOrder cancels a received, unpaid order.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	order, err := h.orders.Cancel(c.Context(), actor, id, req.Reason)
	if err != nil {
		return apperr.ToFiber(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// loadOrderFor fetches one order, hiding other customers' orders behind 404.
func (h *OrderHandler) loadOrderFor(actor services.Actor, id uuid.UUID) (*models.Order, error) {
	query := h.db.Preload("Items.SizeBreakdown").Preload("StatusHistory")
	if actor.Role == models.RoleCustomer {
		query = query.Where("user_id = ?", actor.ID)
	}

	var order models.Order
	if err := query.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}
