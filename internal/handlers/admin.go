package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/konveksi/internal/models"
	"github.com/example/konveksi/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	// Settled revenue: paid, non-cancelled orders.
	var paidRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("is_paid = true AND status != ?", models.StatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&paidRevenue).Error; err != nil {
		return err
	}

	// Outstanding receivables: unpaid balances on live orders.
	var outstanding float64
	if err := h.db.Model(&models.Order{}).
		Where("is_paid = false AND status != ?", models.StatusCancelled).
		Select("COALESCE(SUM(remaining_amount), 0)").
		Scan(&outstanding).Error; err != nil {
		return err
	}

	var todayOrders int64
	if err := h.db.Model(&models.Order{}).
		Where("placed_at::date = CURRENT_DATE").
		Count(&todayOrders).Error; err != nil {
		return err
	}

	var pendingVerification int64
	if err := h.db.Model(&models.Payment{}).
		Where("status = ? AND is_verified = false", models.PaymentPaid).
		Count(&pendingVerification).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_orders":         totalOrders,
			"today_orders":         todayOrders,
			"orders_by_status":     ordersByStatus,
			"paid_revenue":         paidRevenue,
			"outstanding_amount":   outstanding,
			"pending_verification": pendingVerification,
		},
	})
}

// ListAllOrders returns all orders with pagination and filtering.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paid := c.Query("is_paid"); paid != "" {
		query = query.Where("is_paid = ?", paid == "true")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where(
			"order_number ILIKE ? OR customer_name ILIKE ?",
			"%"+search+"%", "%"+search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
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

// ListAllUsers returns all accounts.
func (h *AdminHandler) ListAllUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// UpdateUserRole assigns a staff role to an account.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch req.Role {
	case models.RoleAdmin, models.RoleCashier, models.RoleStaff, models.RoleOwner, models.RoleCustomer:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown role")
	}

	result := h.db.Model(&models.User{}).Where("id = ?", id).Update("role", req.Role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{"success": true})
}
