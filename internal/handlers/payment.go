package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/middleware"
	"github.com/example/konveksi/internal/models"
	"github.com/example/konveksi/internal/payments"
	"github.com/example/konveksi/internal/services"
)

// PaymentHandler manages payment endpoints: checkout, the gateway webhook
// and manual cashier entries.
type PaymentHandler struct {
	db       *gorm.DB
	payments *services.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(db *gorm.DB, paymentSvc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{db: db, payments: paymentSvc}
}

type checkoutRequest struct {
	OrderID     string             `json:"order_id" validate:"required"`
	PaymentType models.PaymentType `json:"payment_type" validate:"required"`
}

// Checkout opens a gateway payment window for one slice of an order total
// and returns the Snap token and redirect URL.
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	payment, err := h.payments.CreateGatewayTransaction(c.Context(), actor, orderID, req.PaymentType)
	if err != nil {
		return apperr.ToFiber(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"payment_id":   payment.ID,
			"payment_type": payment.PaymentType,
			"amount":       payment.Amount,
			"token":        payment.SnapToken,
			"redirect_url": payment.RedirectURL,
		},
	})
}

// Notification receives the gateway's asynchronous settlement callbacks.
// Unauthenticated by design; the payload signature is the authentication.
func (h *PaymentHandler) Notification(c *fiber.Ctx) error {
	var payload payments.Notification
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notification payload")
	}

	order, err := h.payments.HandleNotification(c.Context(), payload)
	if err != nil {
		return apperr.ToFiber(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_number": order.OrderNumber,
			"is_paid":      order.Payment.IsPaid,
		},
	})
}

// ManualPayment records a payment taken at the counter.
func (h *PaymentHandler) ManualPayment(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req services.ManualPaymentInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	payment, err := h.payments.ApplyManual(c.Context(), actor, req)
	if err != nil {
		return apperr.ToFiber(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payment})
}

// VerifyPayment confirms a manual payment's legitimacy.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	payment, err := h.payments.VerifyManual(c.Context(), actor, id)
	if err != nil {
		return apperr.ToFiber(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": payment})
}

// ListOrderPayments returns the ledger of one order.
func (h *PaymentHandler) ListOrderPayments(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if actor.Role == models.RoleCustomer {
		var order models.Order
		if err := h.db.First(&order, "id = ? AND user_id = ?", orderID, actor.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "order not found")
			}
			return err
		}
	}

	var entries []models.Payment
	if err := h.db.Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&entries).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": entries})
}
