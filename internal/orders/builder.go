// Package orders assembles manufacturing orders and keeps their financial
// invariants consistent on every save.
package orders

import (
	"math"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/catalog"
	"github.com/example/konveksi/internal/models"
	"github.com/example/konveksi/internal/pricing"
)

// SizeInput is one requested size and quantity for an item.
type SizeInput struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// CustomDesignInput is the custom-print request on an item.
type CustomDesignInput struct {
	IsCustom   bool    `json:"is_custom"`
	DesignRef  string  `json:"design_ref"`
	FeePerUnit float64 `json:"fee_per_unit"`
}

// SuppliedPrice is pre-computed pricing a checkout client sends along. It is
// never trusted blindly: the server recomputes and compares.
type SuppliedPrice struct {
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
}

// ItemInput is one requested order line.
type ItemInput struct {
	ProductID     string               `json:"product_id" validate:"required"`
	Color         catalog.AttributeRef `json:"color"`
	Material      catalog.AttributeRef `json:"material"`
	SizeBreakdown []SizeInput          `json:"size_breakdown" validate:"required,min=1,dive"`
	CustomDesign  CustomDesignInput    `json:"custom_design"`
	SuppliedPrice *SuppliedPrice       `json:"price_details"`
}

// BuildItem binds one requested line against the product catalog and prices
// it. The SKU must resolve and the engine must produce a non-zero total;
// anything else aborts order creation so a broken price never reaches the
// payment amounts. When the caller supplied pricing it is cross-checked
// against the recomputation and a disagreement beyond rounding is an error.
func BuildItem(product *models.Product, in ItemInput) (models.OrderItem, error) {
	if len(in.SizeBreakdown) == 0 {
		return models.OrderItem{}, apperr.Validation("item for product %s has no size breakdown", product.Name)
	}

	breakdown := make([]pricing.SizeQuantity, 0, len(in.SizeBreakdown))
	for _, s := range in.SizeBreakdown {
		if s.Quantity < 1 {
			return models.OrderItem{}, apperr.Validation("size %s has quantity %d, must be at least 1", s.Size, s.Quantity)
		}
		additional, err := catalog.SizePrice(product, s.Size)
		if err != nil {
			return models.OrderItem{}, err
		}
		breakdown = append(breakdown, pricing.SizeQuantity{
			Size:            s.Size,
			Quantity:        s.Quantity,
			AdditionalPrice: additional,
		})
	}

	// Every requested size must bind to a generated SKU before pricing.
	var skuCode string
	for _, s := range in.SizeBreakdown {
		sku, err := catalog.Resolve(product, s.Size, in.Color, in.Material)
		if err != nil {
			return models.OrderItem{}, err
		}
		if skuCode == "" {
			skuCode = sku.Code
		}
	}

	colorName, err := catalog.ColorName(product, in.Color)
	if err != nil {
		return models.OrderItem{}, err
	}
	materialName, materialPrice, err := catalog.MaterialName(product, in.Material)
	if err != nil {
		return models.OrderItem{}, err
	}

	details := pricing.ComputeItemPrice(
		pricing.Attributes{
			BasePrice:        product.BasePrice,
			DozenPrice:       product.DozenPrice,
			CustomizationFee: product.CustomizationFee,
			DiscountPercent:  product.DiscountPercent,
		},
		breakdown,
		materialPrice,
		pricing.CustomDesign{
			IsCustom:   in.CustomDesign.IsCustom,
			DesignRef:  in.CustomDesign.DesignRef,
			FeePerUnit: in.CustomDesign.FeePerUnit,
		},
	)
	if details.Zero() {
		return models.OrderItem{}, apperr.PricingUncomputable("price for product %s could not be computed", product.Name)
	}

	if in.SuppliedPrice != nil && math.Abs(in.SuppliedPrice.Total-details.Total) > 1 {
		return models.OrderItem{}, apperr.PriceMismatch(
			"client priced product %s at %.0f, server computed %.0f",
			product.Name, in.SuppliedPrice.Total, details.Total)
	}

	item := models.OrderItem{
		ProductID:        &product.ID,
		ProductName:      product.Name,
		SKUCode:          skuCode,
		Color:            colorName,
		Material:         materialName,
		Quantity:         details.TotalQuantity,
		UnitPrice:        product.BasePrice,
		DozenPrice:       product.DozenPrice,
		MaterialPrice:    materialPrice,
		IsCustomDesign:   in.CustomDesign.IsCustom,
		DesignRef:        in.CustomDesign.DesignRef,
		CustomFeePerUnit: details.Components.CustomizationFee,

		PriceSubtotal:       details.Subtotal,
		PriceDozenCount:     details.DozenCount,
		PriceCustomFeeTotal: details.CustomFeeTotal,
		PriceDiscount:       details.DiscountAmount,
		PriceDiscountPct:    details.DiscountPercent,
		PriceTotal:          details.Total,
	}

	for _, cost := range details.Sizes {
		item.SizeBreakdown = append(item.SizeBreakdown, models.SizeBreakdownEntry{
			Size:            cost.Size,
			Quantity:        cost.Quantity,
			AdditionalPrice: cost.AdditionalPrice,
			DozenQuantity:   cost.DozenQuantity,
			UnitQuantity:    cost.UnitQuantity,
			Subtotal:        cost.Subtotal,
		})
	}

	return item, nil
}
