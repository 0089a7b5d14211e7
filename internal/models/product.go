package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a configurable apparel product: base pricing plus the size,
// color and material options a customer can combine.
type Product struct {
	BaseModel
	Name             string            `json:"name"`
	Slug             string            `gorm:"uniqueIndex" json:"slug"`
	Description      string            `json:"description"`
	Category         string            `json:"category"`
	BasePrice        float64           `json:"base_price"`
	DozenPrice       float64           `json:"dozen_price"` // total for 12 units, 0 disables the dozen tier
	CustomizationFee float64           `json:"customization_fee"`
	DiscountPercent  float64           `json:"discount_percent"`
	IsActive         bool              `gorm:"default:true" json:"is_active"`
	HeroImage        string            `json:"hero_image"`
	Sizes            []ProductSize     `json:"sizes,omitempty"`
	Colors           []ProductColor    `json:"colors,omitempty"`
	Materials        []ProductMaterial `json:"materials,omitempty"`
	SKUs             []ProductSKU      `json:"skus,omitempty"`
}

// ProductSize is one offered size with its surcharge over the base price.
type ProductSize struct {
	BaseModel
	ProductID       uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Name            string    `json:"name"`
	AdditionalPrice float64   `json:"additional_price"`
	DisplayOrder    int       `json:"display_order"`
}

// ProductColor is one offered color.
type ProductColor struct {
	BaseModel
	ProductID uuid.UUID      `gorm:"type:uuid;index" json:"product_id"`
	Name      string         `json:"name"`
	HexCode   string         `json:"hex_code"`
	Available bool           `gorm:"default:true" json:"available"`
	Images    pq.StringArray `gorm:"type:text[]" json:"images"`
}

// ProductMaterial is one offered fabric with its surcharge over the base price.
type ProductMaterial struct {
	BaseModel
	ProductID       uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Name            string    `json:"name"`
	AdditionalPrice float64   `json:"additional_price"`
}

// ProductSKU is one generated size x color x material combination actually
// offered. Orders bind against this table, never against raw attribute input.
type ProductSKU struct {
	BaseModel
	ProductID  uuid.UUID  `gorm:"type:uuid;index" json:"product_id"`
	Code       string     `gorm:"uniqueIndex" json:"code"`
	Size       string     `json:"size"`
	Color      string     `json:"color"`
	Material   string     `json:"material"`
	SizeID     *uuid.UUID `gorm:"type:uuid" json:"size_id"`
	ColorID    *uuid.UUID `gorm:"type:uuid" json:"color_id"`
	MaterialID *uuid.UUID `gorm:"type:uuid" json:"material_id"`
}
