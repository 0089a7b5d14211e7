package payments

import (
	"time"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
)

// Apply folds one ledger entry into the order's payment summary. It derives
// the summary from the entry's current status, never by re-adding amounts,
// so replaying the same entry is idempotent. The caller owns persistence
// and the per-order serialization boundary.
func Apply(order *models.Order, payment *models.Payment, now time.Time) error {
	switch payment.PaymentType {
	case models.PaymentTypeDownPayment, models.PaymentTypeRemaining, models.PaymentTypeFull:
	default:
		return apperr.Validation("unknown payment type %q", payment.PaymentType)
	}

	switch payment.Status {
	case models.PaymentPaid:
		applyPaid(order, payment, now)
	case models.PaymentPending:
		setSubStatus(order, payment.PaymentType, models.PaymentPending)
	case models.PaymentExpired:
		// Gateway-reported expire/cancel/deny is terminal until a new
		// payment attempt is created.
		setSubStatus(order, payment.PaymentType, models.PaymentExpired)
	case models.PaymentFailed, models.PaymentRefunded:
		// A failed or refunded attempt reopens the sub-payment so the
		// customer can retry.
		setSubStatus(order, payment.PaymentType, models.PaymentPending)
	default:
		return apperr.Validation("unknown payment status %q", payment.Status)
	}

	refreshPaidFlag(order)
	return nil
}

func applyPaid(order *models.Order, payment *models.Payment, now time.Time) {
	if payment.PaidAt == nil {
		paidAt := now
		payment.PaidAt = &paidAt
	}

	switch payment.PaymentType {
	case models.PaymentTypeFull:
		order.Payment.DownPaymentStatus = models.PaymentPaid
		order.Payment.DownPaymentPaidAt = payment.PaidAt
		order.Payment.DownPaymentMethod = payment.Method
		order.Payment.RemainingStatus = models.PaymentPaid
		order.Payment.RemainingPaidAt = payment.PaidAt
		order.Payment.RemainingMethod = payment.Method
		order.Payment.IsPaid = true

	case models.PaymentTypeDownPayment:
		order.Payment.DownPaymentStatus = models.PaymentPaid
		order.Payment.DownPaymentPaidAt = payment.PaidAt
		order.Payment.DownPaymentMethod = payment.Method

	case models.PaymentTypeRemaining:
		// The remaining payment is by definition the last one; settling it
		// settles the order.
		order.Payment.RemainingStatus = models.PaymentPaid
		order.Payment.RemainingPaidAt = payment.PaidAt
		order.Payment.RemainingMethod = payment.Method
		order.Payment.IsPaid = true
	}
}

func setSubStatus(order *models.Order, paymentType models.PaymentType, status models.PaymentStatus) {
	switch paymentType {
	case models.PaymentTypeFull:
		order.Payment.DownPaymentStatus = status
		order.Payment.RemainingStatus = status
	case models.PaymentTypeDownPayment:
		order.Payment.DownPaymentStatus = status
	case models.PaymentTypeRemaining:
		order.Payment.RemainingStatus = status
	}
}

func refreshPaidFlag(order *models.Order) {
	if order.Payment.Total == 0 {
		order.Payment.IsPaid = true
		return
	}
	if order.Payment.RemainingStatus == models.PaymentPaid {
		// Forced by the last-payment rule, even if the down payment row
		// never settled.
		order.Payment.IsPaid = true
		return
	}
	order.Payment.IsPaid = order.Payment.DownPaymentStatus == models.PaymentPaid &&
		order.Payment.RemainingStatus == models.PaymentPaid
}
