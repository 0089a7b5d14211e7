package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeItemPriceDeterministic(t *testing.T) {
	attrs := Attributes{BasePrice: 50000, DozenPrice: 480000, CustomizationFee: 10000, DiscountPercent: 5}
	breakdown := []SizeQuantity{
		{Size: "M", Quantity: 10},
		{Size: "XL", Quantity: 5, AdditionalPrice: 3000},
	}
	design := CustomDesign{IsCustom: true}

	first := ComputeItemPrice(attrs, breakdown, 2000, design)
	second := ComputeItemPrice(attrs, breakdown, 2000, design)

	assert.Equal(t, first, second)
}

func TestComputeItemPriceDozenAllocation(t *testing.T) {
	// 24 units => 2 whole dozens, all 24 dozen-covered. S is cheaper so its
	// 20 units go to the dozen tier first; the 4 leftover dozen slots land
	// on L, which still pays its surcharge on top of the dozen rate.
	attrs := Attributes{BasePrice: 50000, DozenPrice: 480000}
	breakdown := []SizeQuantity{
		{Size: "S", Quantity: 20},
		{Size: "L", Quantity: 4, AdditionalPrice: 5000},
	}

	details := ComputeItemPrice(attrs, breakdown, 0, CustomDesign{})

	require.Len(t, details.Sizes, 2)
	assert.Equal(t, 2, details.DozenCount)
	assert.Equal(t, 24, details.TotalQuantity)

	assert.Equal(t, 20, details.Sizes[0].DozenQuantity)
	assert.Equal(t, 0, details.Sizes[0].UnitQuantity)
	assert.Equal(t, 4, details.Sizes[1].DozenQuantity)
	assert.Equal(t, 0, details.Sizes[1].UnitQuantity)

	assert.Equal(t, float64(800000), details.Sizes[0].Subtotal)
	assert.Equal(t, float64(180000), details.Sizes[1].Subtotal)
	assert.Equal(t, float64(980000), details.Subtotal)
	assert.Equal(t, float64(980000), details.Total)
}

func TestComputeItemPricePartialDozen(t *testing.T) {
	// 15 units => 1 dozen covers 12, the remaining 3 pay the unit rate. The
	// cheaper size fills the dozen first.
	attrs := Attributes{BasePrice: 50000, DozenPrice: 480000}
	breakdown := []SizeQuantity{
		{Size: "XL", Quantity: 5, AdditionalPrice: 5000},
		{Size: "M", Quantity: 10},
	}

	details := ComputeItemPrice(attrs, breakdown, 0, CustomDesign{})

	require.Len(t, details.Sizes, 2)
	assert.Equal(t, 1, details.DozenCount)

	// M (cheaper) fully dozen-covered, XL gets the remaining 2 dozen slots.
	assert.Equal(t, 10, details.Sizes[1].DozenQuantity)
	assert.Equal(t, 2, details.Sizes[0].DozenQuantity)
	assert.Equal(t, 3, details.Sizes[0].UnitQuantity)

	wantXL := 2*(40000+5000.0) + 3*(50000+5000.0)
	wantM := 10 * 40000.0
	assert.Equal(t, wantXL, details.Sizes[0].Subtotal)
	assert.Equal(t, wantM, details.Sizes[1].Subtotal)
	assert.Equal(t, wantXL+wantM, details.Total)
}

func TestComputeItemPriceTieBreakKeepsInputOrder(t *testing.T) {
	attrs := Attributes{BasePrice: 10000, DozenPrice: 96000}
	breakdown := []SizeQuantity{
		{Size: "M", Quantity: 8},
		{Size: "L", Quantity: 8},
	}

	details := ComputeItemPrice(attrs, breakdown, 0, CustomDesign{})

	// One dozen; the 12 covered units fill M (first in input order) before L.
	assert.Equal(t, 8, details.Sizes[0].DozenQuantity)
	assert.Equal(t, 4, details.Sizes[1].DozenQuantity)
	assert.Equal(t, 4, details.Sizes[1].UnitQuantity)
}

func TestComputeItemPriceNoDozenBelowTwelve(t *testing.T) {
	attrs := Attributes{BasePrice: 50000, DozenPrice: 480000}
	breakdown := []SizeQuantity{{Size: "M", Quantity: 11}}

	details := ComputeItemPrice(attrs, breakdown, 0, CustomDesign{})

	assert.Equal(t, 0, details.DozenCount)
	assert.Equal(t, float64(11*50000), details.Total)
}

func TestComputeItemPriceDozenDisabled(t *testing.T) {
	attrs := Attributes{BasePrice: 50000}
	breakdown := []SizeQuantity{{Size: "M", Quantity: 24}}

	details := ComputeItemPrice(attrs, breakdown, 0, CustomDesign{})

	assert.Equal(t, 0, details.DozenCount)
	assert.Equal(t, float64(24*50000), details.Total)
}

func TestComputeItemPriceCustomFee(t *testing.T) {
	attrs := Attributes{BasePrice: 50000, CustomizationFee: 10000}
	breakdown := []SizeQuantity{{Size: "M", Quantity: 3}}

	t.Run("product fee wins over caller override", func(t *testing.T) {
		details := ComputeItemPrice(attrs, breakdown, 0, CustomDesign{IsCustom: true, FeePerUnit: 99999})
		assert.Equal(t, float64(30000), details.CustomFeeTotal)
		assert.Equal(t, float64(10000), details.Components.CustomizationFee)
	})

	t.Run("caller fee used when product fee absent", func(t *testing.T) {
		plain := Attributes{BasePrice: 50000}
		details := ComputeItemPrice(plain, breakdown, 0, CustomDesign{IsCustom: true, FeePerUnit: 5000})
		assert.Equal(t, float64(15000), details.CustomFeeTotal)
	})

	t.Run("no fee when not custom", func(t *testing.T) {
		details := ComputeItemPrice(attrs, breakdown, 0, CustomDesign{})
		assert.Zero(t, details.CustomFeeTotal)
	})
}

func TestComputeItemPriceDiscountRounding(t *testing.T) {
	attrs := Attributes{BasePrice: 33333, DiscountPercent: 10}
	breakdown := []SizeQuantity{{Size: "M", Quantity: 1}}

	details := ComputeItemPrice(attrs, breakdown, 0, CustomDesign{})

	assert.Equal(t, float64(3333), details.DiscountAmount)
	assert.Equal(t, float64(30000), details.Total)
}

func TestComputeItemPriceMaterialSurcharge(t *testing.T) {
	attrs := Attributes{BasePrice: 50000, DozenPrice: 480000}
	breakdown := []SizeQuantity{{Size: "M", Quantity: 12}}

	details := ComputeItemPrice(attrs, breakdown, 7000, CustomDesign{})

	// Material surcharge applies on both tiers.
	assert.Equal(t, float64(12*(40000+7000)), details.Total)
}

func TestComputeItemPriceDegenerateInput(t *testing.T) {
	tests := []struct {
		name      string
		attrs     Attributes
		breakdown []SizeQuantity
	}{
		{name: "missing base price", attrs: Attributes{}, breakdown: []SizeQuantity{{Size: "M", Quantity: 1}}},
		{name: "empty breakdown", attrs: Attributes{BasePrice: 50000}, breakdown: nil},
		{name: "zero quantity entry", attrs: Attributes{BasePrice: 50000}, breakdown: []SizeQuantity{{Size: "M"}}},
		{name: "negative quantity entry", attrs: Attributes{BasePrice: 50000}, breakdown: []SizeQuantity{{Size: "M", Quantity: -2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := ComputeItemPrice(tt.attrs, tt.breakdown, 0, CustomDesign{})
			assert.True(t, details.Zero())
			assert.Equal(t, Details{}, details)
		})
	}
}
