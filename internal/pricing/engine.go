// Package pricing computes an order line's price from the product's
// attributes and the requested size breakdown. Pure functions, no I/O.
package pricing

import (
	"math"
	"sort"
)

// Attributes is the pricing-relevant slice of a product.
type Attributes struct {
	BasePrice        float64
	DozenPrice       float64 // total price for 12 units, 0 disables the tier
	CustomizationFee float64 // per unit
	DiscountPercent  float64
}

// SizeQuantity is one requested size with its quantity and surcharge.
type SizeQuantity struct {
	Size            string
	Quantity        int
	AdditionalPrice float64
}

// CustomDesign describes a line's custom-print request. FeePerUnit is a
// caller-supplied fallback; the product-level fee wins when both are set.
type CustomDesign struct {
	IsCustom   bool
	DesignRef  string
	FeePerUnit float64
}

// SizeCost is the per-size result: how the quantity was split between the
// dozen and unit tiers and what the slice costs.
type SizeCost struct {
	Size            string
	Quantity        int
	AdditionalPrice float64
	DozenQuantity   int
	UnitQuantity    int
	Subtotal        float64
}

// Components echoes the price inputs the engine resolved, for auditing.
type Components struct {
	BasePrice        float64
	DozenPrice       float64
	MaterialPrice    float64
	CustomizationFee float64
}

// Details is the itemized output of the engine. An all-zero Details means
// the input was not computable; callers expecting a non-zero total must
// reject it upstream.
type Details struct {
	Subtotal        float64
	Sizes           []SizeCost
	TotalQuantity   int
	DozenCount      int
	CustomFeeTotal  float64
	DiscountAmount  float64
	DiscountPercent float64
	Total           float64
	Components      Components
}

// Zero reports whether the details are the degenerate all-zero result.
func (d Details) Zero() bool {
	return d.TotalQuantity == 0 && d.Total == 0 && d.Subtotal == 0
}

// ComputeItemPrice prices one line. Every complete group of 12 units is
// charged dozenPrice/12 per unit instead of the base price, and the
// dozen-covered quantity is assigned to the cheapest sizes first (ties kept
// in input order) so the bulk rate lands on low-surcharge sizes.
func ComputeItemPrice(attrs Attributes, breakdown []SizeQuantity, materialPrice float64, design CustomDesign) Details {
	if attrs.BasePrice <= 0 || len(breakdown) == 0 {
		return Details{}
	}

	total := 0
	for _, entry := range breakdown {
		if entry.Quantity < 1 {
			return Details{}
		}
		total += entry.Quantity
	}

	dozenCount := 0
	if attrs.DozenPrice > 0 && total >= 12 {
		dozenCount = total / 12
	}
	dozenCovered := dozenCount * 12

	// Allocate the dozen-covered quantity cheapest size first.
	order := make([]int, len(breakdown))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return breakdown[order[a]].AdditionalPrice < breakdown[order[b]].AdditionalPrice
	})

	dozenQty := make([]int, len(breakdown))
	remaining := dozenCovered
	for _, idx := range order {
		if remaining == 0 {
			break
		}
		take := breakdown[idx].Quantity
		if take > remaining {
			take = remaining
		}
		dozenQty[idx] = take
		remaining -= take
	}

	dozenUnit := 0.0
	if dozenCount > 0 {
		dozenUnit = attrs.DozenPrice / 12
	}

	details := Details{
		TotalQuantity:   total,
		DozenCount:      dozenCount,
		DiscountPercent: attrs.DiscountPercent,
		Components: Components{
			BasePrice:     attrs.BasePrice,
			DozenPrice:    attrs.DozenPrice,
			MaterialPrice: materialPrice,
		},
	}

	for i, entry := range breakdown {
		unitQty := entry.Quantity - dozenQty[i]
		cost := SizeCost{
			Size:            entry.Size,
			Quantity:        entry.Quantity,
			AdditionalPrice: entry.AdditionalPrice,
			DozenQuantity:   dozenQty[i],
			UnitQuantity:    unitQty,
		}
		dozenCost := float64(dozenQty[i]) * (dozenUnit + entry.AdditionalPrice + materialPrice)
		unitCost := float64(unitQty) * (attrs.BasePrice + entry.AdditionalPrice + materialPrice)
		cost.Subtotal = dozenCost + unitCost

		details.Sizes = append(details.Sizes, cost)
		details.Subtotal += cost.Subtotal
	}

	if design.IsCustom {
		fee := attrs.CustomizationFee
		if fee <= 0 {
			fee = design.FeePerUnit
		}
		if fee > 0 {
			details.Components.CustomizationFee = fee
			details.CustomFeeTotal = fee * float64(total)
			details.Subtotal += details.CustomFeeTotal
		}
	}

	if attrs.DiscountPercent > 0 {
		details.DiscountAmount = math.Round(details.Subtotal * attrs.DiscountPercent / 100)
	}
	details.Total = details.Subtotal - details.DiscountAmount

	return details
}
