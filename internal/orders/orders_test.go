package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/catalog"
	"github.com/example/konveksi/internal/models"
)

func TestOrderNumberFormat(t *testing.T) {
	date := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "KNV-240901-001", Number("KNV", date, 1))
	assert.Equal(t, "KNV-240901-042", Number("KNV", date, 42))
	assert.Equal(t, "KNV-240901-1000", Number("KNV", date, 1000))
	assert.Equal(t, "KNV-240901-", DayPrefix("KNV", date))
}

func TestNextSequence(t *testing.T) {
	assert.Equal(t, 1, NextSequence(""))
	assert.Equal(t, 1, NextSequence("garbage"))
	assert.Equal(t, 2, NextSequence("KNV-240901-001"))
	assert.Equal(t, 100, NextSequence("KNV-240901-099"))
}

func jerseyProduct() *models.Product {
	p := &models.Product{
		Name:             "Jersey",
		BasePrice:        50000,
		DozenPrice:       480000,
		CustomizationFee: 10000,
	}
	p.ID = uuid.New()
	p.Sizes = []models.ProductSize{
		{Name: "S"},
		{Name: "L", AdditionalPrice: 5000},
	}
	p.Colors = []models.ProductColor{{Name: "Navy"}}
	p.Materials = []models.ProductMaterial{{Name: "Cotton"}}
	p.SKUs = []models.ProductSKU{
		{Code: "JSY-S-NAVY-COT", Size: "S", Color: "Navy", Material: "Cotton"},
		{Code: "JSY-L-NAVY-COT", Size: "L", Color: "Navy", Material: "Cotton"},
	}
	return p
}

func jerseyInput() ItemInput {
	return ItemInput{
		ProductID: uuid.New().String(),
		Color:     catalog.AttributeRef{Name: "Navy"},
		Material:  catalog.AttributeRef{Name: "Cotton"},
		SizeBreakdown: []SizeInput{
			{Size: "S", Quantity: 20},
			{Size: "L", Quantity: 4},
		},
	}
}

func TestBuildItemPricesBreakdown(t *testing.T) {
	item, err := BuildItem(jerseyProduct(), jerseyInput())
	require.NoError(t, err)

	assert.Equal(t, "JSY-S-NAVY-COT", item.SKUCode)
	assert.Equal(t, 24, item.Quantity)
	assert.Equal(t, 2, item.PriceDozenCount)
	assert.Equal(t, float64(980000), item.PriceTotal)
	require.Len(t, item.SizeBreakdown, 2)
	assert.Equal(t, 20, item.SizeBreakdown[0].DozenQuantity)
	assert.Equal(t, 4, item.SizeBreakdown[1].DozenQuantity)
}

func TestBuildItemRejectsBadBreakdown(t *testing.T) {
	in := jerseyInput()
	in.SizeBreakdown = nil
	_, err := BuildItem(jerseyProduct(), in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = jerseyInput()
	in.SizeBreakdown[0].Quantity = 0
	_, err = BuildItem(jerseyProduct(), in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = jerseyInput()
	in.SizeBreakdown[0].Size = "XXL"
	_, err = BuildItem(jerseyProduct(), in)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestBuildItemRejectsUncomputablePrice(t *testing.T) {
	p := jerseyProduct()
	p.BasePrice = 0

	_, err := BuildItem(p, jerseyInput())
	assert.True(t, apperr.IsKind(err, apperr.KindPricingUncomputable))
}

func TestBuildItemCrossChecksSuppliedPrice(t *testing.T) {
	in := jerseyInput()
	in.SuppliedPrice = &SuppliedPrice{Total: 980000}
	_, err := BuildItem(jerseyProduct(), in)
	assert.NoError(t, err)

	in.SuppliedPrice = &SuppliedPrice{Total: 900000}
	_, err = BuildItem(jerseyProduct(), in)
	assert.True(t, apperr.IsKind(err, apperr.KindPriceMismatch))
}

func TestReconcileScenario(t *testing.T) {
	// Two items totalling 200000 before the 10% order discount, one of them
	// carrying a 30000 custom fee; 30% down payment on the 180000 total.
	order := &models.Order{
		DiscountPercent: 10,
		Items: []models.OrderItem{
			{PriceTotal: 150000, PriceCustomFeeTotal: 30000},
			{PriceTotal: 50000},
		},
		Payment: models.PaymentSummary{
			DownPaymentRequired: true,
			DownPaymentPercent:  30,
			DownPaymentStatus:   models.PaymentPending,
			RemainingStatus:     models.PaymentPending,
		},
	}

	Reconcile(order)

	assert.Equal(t, float64(200000), order.Payment.Subtotal)
	assert.Equal(t, float64(30000), order.Payment.CustomFees)
	assert.Equal(t, float64(20000), order.Payment.Discount)
	assert.Equal(t, float64(180000), order.Payment.Total)
	assert.Equal(t, float64(54000), order.Payment.DownPaymentAmount)
	assert.Equal(t, float64(126000), order.Payment.RemainingAmount)
	assert.False(t, order.Payment.IsPaid)
}

func TestReconcileAmountsAlwaysSum(t *testing.T) {
	// Down payment plus remaining must equal the total for awkward
	// percentages too.
	for _, total := range []float64{99999, 123457, 7, 180001} {
		order := &models.Order{
			Items: []models.OrderItem{{PriceTotal: total}},
			Payment: models.PaymentSummary{
				DownPaymentRequired: true,
				DownPaymentPercent:  33,
			},
		}
		Reconcile(order)
		assert.Equal(t, order.Payment.Total,
			order.Payment.DownPaymentAmount+order.Payment.RemainingAmount)
	}
}

func TestReconcileNoDownPayment(t *testing.T) {
	order := &models.Order{
		Items:   []models.OrderItem{{PriceTotal: 100000}},
		Payment: models.PaymentSummary{DownPaymentPercent: 30},
	}

	Reconcile(order)

	assert.Zero(t, order.Payment.DownPaymentAmount)
	assert.Equal(t, float64(100000), order.Payment.RemainingAmount)
}

func TestReconcileZeroTotalSettles(t *testing.T) {
	order := &models.Order{
		Payment: models.PaymentSummary{
			DownPaymentStatus: models.PaymentPending,
			RemainingStatus:   models.PaymentPending,
		},
	}

	Reconcile(order)

	assert.True(t, order.Payment.IsPaid)
	assert.Equal(t, models.PaymentPaid, order.Payment.DownPaymentStatus)
	assert.Equal(t, models.PaymentPaid, order.Payment.RemainingStatus)
}

func TestCheckSuppliedTotals(t *testing.T) {
	order := &models.Order{Payment: models.PaymentSummary{Subtotal: 200000, Total: 180000}}

	good := 180000.0
	require.NoError(t, CheckSuppliedTotals(order, nil, &good))

	// Understating the total is the integrity gap the cross-check closes.
	bad := 100000.0
	err := CheckSuppliedTotals(order, nil, &bad)
	assert.True(t, apperr.IsKind(err, apperr.KindPriceMismatch))

	badSub := 150000.0
	err = CheckSuppliedTotals(order, &badSub, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindPriceMismatch))
}
