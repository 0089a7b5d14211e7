package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/konveksi/internal/models"
	"github.com/example/konveksi/internal/utils"
)

// ProductHandler manages the configurable product catalog.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

type productSizeRequest struct {
	Name            string  `json:"name"`
	AdditionalPrice float64 `json:"additional_price"`
}

type productColorRequest struct {
	Name      string   `json:"name"`
	HexCode   string   `json:"hex_code"`
	Available *bool    `json:"available"`
	Images    []string `json:"images"`
}

type productMaterialRequest struct {
	Name            string  `json:"name"`
	AdditionalPrice float64 `json:"additional_price"`
}

type productRequest struct {
	Name             string                   `json:"name"`
	Slug             string                   `json:"slug"`
	Description      string                   `json:"description"`
	Category         string                   `json:"category"`
	BasePrice        float64                  `json:"base_price"`
	DozenPrice       float64                  `json:"dozen_price"`
	CustomizationFee float64                  `json:"customization_fee"`
	DiscountPercent  float64                  `json:"discount_percent"`
	HeroImage        string                   `json:"hero_image"`
	Sizes            []productSizeRequest     `json:"sizes"`
	Colors           []productColorRequest    `json:"colors"`
	Materials        []productMaterialRequest `json:"materials"`
}

// ListProducts returns the paginated catalog.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Sizes").Preload("Colors").Preload("Materials").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct returns one product with all options and generated SKUs.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Sizes").Preload("Colors").Preload("Materials").Preload("SKUs").
		First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// CreateProduct persists a catalog product and generates its SKU table from
// the offered size, color and material combinations.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.BasePrice <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a positive base price are required")
	}
	if len(req.Sizes) == 0 || len(req.Colors) == 0 || len(req.Materials) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "at least one size, color and material are required")
	}

	product := buildProduct(req)

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct replaces a product's attributes and regenerates its SKUs.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var existing models.Product
	if err := h.db.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	product := buildProduct(req)
	product.ID = existing.ID

	err = h.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.ProductSize{}, &models.ProductColor{},
			&models.ProductMaterial{}, &models.ProductSKU{},
		} {
			if err := tx.Where("product_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&product).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct deactivates a product so existing orders keep their refs.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.Product{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true})
}

func buildProduct(req productRequest) models.Product {
	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	product := models.Product{
		Name:             req.Name,
		Slug:             slug,
		Description:      req.Description,
		Category:         req.Category,
		BasePrice:        req.BasePrice,
		DozenPrice:       req.DozenPrice,
		CustomizationFee: req.CustomizationFee,
		DiscountPercent:  req.DiscountPercent,
		IsActive:         true,
		HeroImage:        req.HeroImage,
	}

	for i, s := range req.Sizes {
		product.Sizes = append(product.Sizes, models.ProductSize{
			Name:            s.Name,
			AdditionalPrice: s.AdditionalPrice,
			DisplayOrder:    i,
		})
	}
	for _, col := range req.Colors {
		available := true
		if col.Available != nil {
			available = *col.Available
		}
		product.Colors = append(product.Colors, models.ProductColor{
			Name:      col.Name,
			HexCode:   col.HexCode,
			Available: available,
			Images:    pq.StringArray(col.Images),
		})
	}
	for _, m := range req.Materials {
		product.Materials = append(product.Materials, models.ProductMaterial{
			Name:            m.Name,
			AdditionalPrice: m.AdditionalPrice,
		})
	}

	// One SKU per offered size x color x material combination.
	for _, s := range product.Sizes {
		for _, col := range product.Colors {
			if !col.Available {
				continue
			}
			for _, m := range product.Materials {
				product.SKUs = append(product.SKUs, models.ProductSKU{
					Code:     skuCode(slug, s.Name, col.Name, m.Name),
					Size:     s.Name,
					Color:    col.Name,
					Material: m.Name,
				})
			}
		}
	}

	return product
}

func skuCode(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(p), " ", ""))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "-")
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8])
}
