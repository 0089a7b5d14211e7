package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
)

func testOrder() *models.Order {
	return &models.Order{
		Status: models.StatusReceived,
		Payment: models.PaymentSummary{
			Subtotal:            200000,
			Discount:            20000,
			Total:               180000,
			DownPaymentRequired: true,
			DownPaymentPercent:  30,
			DownPaymentAmount:   54000,
			DownPaymentStatus:   models.PaymentPending,
			RemainingAmount:     126000,
			RemainingStatus:     models.PaymentPending,
		},
	}
}

func TestApplyDownPaymentThenRemaining(t *testing.T) {
	order := testOrder()
	now := time.Now()

	dp := &models.Payment{PaymentType: models.PaymentTypeDownPayment, Amount: 54000, Method: "gateway", Status: models.PaymentPaid}
	require.NoError(t, Apply(order, dp, now))

	assert.Equal(t, models.PaymentPaid, order.Payment.DownPaymentStatus)
	assert.False(t, order.Payment.IsPaid)
	require.NotNil(t, dp.PaidAt)

	rest := &models.Payment{PaymentType: models.PaymentTypeRemaining, Amount: 126000, Method: "cash", Status: models.PaymentPaid}
	require.NoError(t, Apply(order, rest, now))

	assert.Equal(t, models.PaymentPaid, order.Payment.RemainingStatus)
	assert.Equal(t, "cash", order.Payment.RemainingMethod)
	assert.True(t, order.Payment.IsPaid)
}

func TestApplyFullPayment(t *testing.T) {
	order := testOrder()

	full := &models.Payment{PaymentType: models.PaymentTypeFull, Amount: 180000, Method: "gateway", Status: models.PaymentPaid}
	require.NoError(t, Apply(order, full, time.Now()))

	assert.Equal(t, models.PaymentPaid, order.Payment.DownPaymentStatus)
	assert.Equal(t, models.PaymentPaid, order.Payment.RemainingStatus)
	assert.True(t, order.Payment.IsPaid)
}

func TestApplyRemainingForcesSettlement(t *testing.T) {
	// Remaining is defined as the last payment; settling it settles the
	// order even if the down payment row never cleared.
	order := testOrder()

	rest := &models.Payment{PaymentType: models.PaymentTypeRemaining, Amount: 126000, Status: models.PaymentPaid}
	require.NoError(t, Apply(order, rest, time.Now()))

	assert.True(t, order.Payment.IsPaid)
	assert.Equal(t, models.PaymentPending, order.Payment.DownPaymentStatus)
}

func TestApplyIdempotent(t *testing.T) {
	order := testOrder()
	now := time.Now()
	p := &models.Payment{PaymentType: models.PaymentTypeDownPayment, Amount: 54000, Status: models.PaymentPaid}

	require.NoError(t, Apply(order, p, now))
	once := order.Payment

	require.NoError(t, Apply(order, p, now.Add(time.Minute)))
	twice := order.Payment

	assert.Equal(t, once, twice)
}

func TestApplyExpiredIsTerminalFailedIsNot(t *testing.T) {
	order := testOrder()

	expired := &models.Payment{PaymentType: models.PaymentTypeDownPayment, Status: models.PaymentExpired}
	require.NoError(t, Apply(order, expired, time.Now()))
	assert.Equal(t, models.PaymentExpired, order.Payment.DownPaymentStatus)

	failed := &models.Payment{PaymentType: models.PaymentTypeDownPayment, Status: models.PaymentFailed}
	require.NoError(t, Apply(order, failed, time.Now()))
	assert.Equal(t, models.PaymentPending, order.Payment.DownPaymentStatus)
}

func TestApplyZeroTotalAlwaysPaid(t *testing.T) {
	order := testOrder()
	order.Payment.Total = 0

	pending := &models.Payment{PaymentType: models.PaymentTypeDownPayment, Status: models.PaymentPending}
	require.NoError(t, Apply(order, pending, time.Now()))

	assert.True(t, order.Payment.IsPaid)
}

func TestApplyRejectsUnknownInput(t *testing.T) {
	order := testOrder()

	err := Apply(order, &models.Payment{PaymentType: "installment", Status: models.PaymentPaid}, time.Now())
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = Apply(order, &models.Payment{PaymentType: models.PaymentTypeFull, Status: "charged"}, time.Now())
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    models.PaymentStatus
		wantErr bool
	}{
		{in: "settlement", want: models.PaymentPaid},
		{in: "capture", want: models.PaymentPaid},
		{in: "pending", want: models.PaymentPending},
		{in: "deny", want: models.PaymentExpired},
		{in: "cancel", want: models.PaymentExpired},
		{in: "expire", want: models.PaymentExpired},
		{in: "refund", want: models.PaymentRefunded},
		{in: "authorize", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := MapGatewayStatus(tt.in)
			if tt.wantErr {
				assert.True(t, apperr.IsKind(err, apperr.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyNotification(t *testing.T) {
	n := Notification{
		OrderID:     "KNV-240901-001",
		StatusCode:  "200",
		GrossAmount: "54000.00",
	}
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, "server-key")

	assert.NoError(t, VerifyNotification(n, "server-key"))

	n.SignatureKey = "deadbeef"
	err := VerifyNotification(n, "server-key")
	assert.True(t, apperr.IsKind(err, apperr.KindSignatureInvalid))
}
