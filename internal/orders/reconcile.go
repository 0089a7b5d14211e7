package orders

import (
	"math"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
)

// Reconcile recomputes the order's payment summary from its items. Invoked
// on every save so the amounts can never drift from the item pricing:
// total = subtotal - order discount, down payment + remaining = total, and
// a zero-value order is settled immediately.
func Reconcile(order *models.Order) {
	subtotal := 0.0
	customFees := 0.0
	for _, item := range order.Items {
		subtotal += item.PriceTotal
		customFees += item.PriceCustomFeeTotal
	}

	order.Payment.Subtotal = subtotal
	order.Payment.CustomFees = customFees
	order.Payment.Discount = 0
	if order.DiscountPercent > 0 {
		order.Payment.Discount = math.Round(subtotal * order.DiscountPercent / 100)
	}
	order.Payment.Total = subtotal - order.Payment.Discount

	if order.Payment.DownPaymentRequired {
		order.Payment.DownPaymentAmount = math.Round(order.Payment.Total * order.Payment.DownPaymentPercent / 100)
	} else {
		order.Payment.DownPaymentAmount = 0
	}
	order.Payment.RemainingAmount = order.Payment.Total - order.Payment.DownPaymentAmount

	if order.Payment.Total == 0 {
		order.Payment.IsPaid = true
		order.Payment.DownPaymentStatus = models.PaymentPaid
		order.Payment.RemainingStatus = models.PaymentPaid
	}
}

// CheckSuppliedTotals cross-checks order-level totals a checkout client sent
// along against the reconciled summary. A disagreement beyond one unit of
// rounding means the client understated or overstated the price.
func CheckSuppliedTotals(order *models.Order, subtotal, total *float64) error {
	if subtotal != nil && math.Abs(*subtotal-order.Payment.Subtotal) > 1 {
		return apperr.PriceMismatch("client subtotal %.0f disagrees with computed %.0f",
			*subtotal, order.Payment.Subtotal)
	}
	if total != nil && math.Abs(*total-order.Payment.Total) > 1 {
		return apperr.PriceMismatch("client total %.0f disagrees with computed %.0f",
			*total, order.Payment.Total)
	}
	return nil
}
