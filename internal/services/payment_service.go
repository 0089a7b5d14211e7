package services

import (
	"context"
	"errors"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
	"github.com/example/konveksi/internal/payments"
)

// PaymentService owns the payment ledger: gateway transactions, inbound
// notifications and manual cashier entries. Every reconciliation locks the
// order row so concurrent events for one order cannot interleave.
type PaymentService struct {
	db        *gorm.DB
	telegram  *TelegramService
	midtrans  *MidtransService
	serverKey string
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(db *gorm.DB, telegram *TelegramService, midtrans *MidtransService, serverKey string) *PaymentService {
	return &PaymentService{db: db, telegram: telegram, midtrans: midtrans, serverKey: serverKey}
}

func (s *PaymentService) amountFor(order *models.Order, paymentType models.PaymentType) (float64, error) {
	switch paymentType {
	case models.PaymentTypeDownPayment:
		if !order.Payment.DownPaymentRequired {
			return 0, apperr.Validation("order %s does not use a down payment", order.OrderNumber)
		}
		return order.Payment.DownPaymentAmount, nil
	case models.PaymentTypeRemaining:
		return order.Payment.RemainingAmount, nil
	case models.PaymentTypeFull:
		return order.Payment.Total, nil
	default:
		return 0, apperr.Validation("unknown payment type %q", paymentType)
	}
}

// CreateGatewayTransaction opens a Snap payment window for one slice of the
// order total and appends the pending ledger entry.
func (s *PaymentService) CreateGatewayTransaction(ctx context.Context, actor Actor, orderID uuid.UUID, paymentType models.PaymentType) (*models.Payment, error) {
	var payment models.Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %s not found", orderID)
			}
			return err
		}

		if actor.Role == models.RoleCustomer && order.UserID != actor.ID {
			return apperr.NotFound("order %s not found", orderID)
		}

		if order.Payment.IsPaid {
			return apperr.PaymentConflict("order %s is already fully paid", order.OrderNumber)
		}

		amount, err := s.amountFor(&order, paymentType)
		if err != nil {
			return err
		}
		if amount <= 0 {
			return apperr.Validation("nothing to pay for order %s", order.OrderNumber)
		}

		payment = models.Payment{
			OrderID:     order.ID,
			PaymentType: paymentType,
			Amount:      amount,
			Method:      "gateway",
			Status:      models.PaymentPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		snap, err := s.midtrans.CreateTransaction(ctx, &order, &payment)
		if err != nil {
			return err
		}
		if snap != nil {
			payment.SnapToken = snap.Token
			payment.RedirectURL = snap.RedirectURL
			if err := tx.Save(&payment).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// HandleNotification reconciles one gateway callback into the order's
// payment summary. The signature must verify before anything is touched;
// replays of the same transaction id update the existing ledger entry and
// re-derive the summary, so delivery is idempotent.
func (s *PaymentService) HandleNotification(ctx context.Context, n payments.Notification) (*models.Order, error) {
	if err := payments.VerifyNotification(n, s.serverKey); err != nil {
		log.Printf("[Payment] Rejected notification for %s: invalid signature", n.OrderID)
		return nil, err
	}

	mapped, err := payments.MapGatewayStatus(n.TransactionStatus)
	if err != nil {
		return nil, err
	}

	paymentID, err := uuid.Parse(n.OrderID)
	if err != nil {
		return nil, apperr.NotFound("unknown payment reference %q", n.OrderID)
	}

	gross, err := strconv.ParseFloat(n.GrossAmount, 64)
	if err != nil {
		return nil, apperr.Validation("malformed gross amount %q", n.GrossAmount)
	}

	var order models.Order

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment %s not found", paymentID)
			}
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", payment.OrderID).Error; err != nil {
			return err
		}

		if payment.ExternalTransactionID != nil && *payment.ExternalTransactionID == n.TransactionID &&
			math.Abs(payment.Amount-gross) > 0.01 {
			return apperr.PaymentConflict("transaction %s replayed with amount %.2f, ledger has %.2f",
				n.TransactionID, gross, payment.Amount)
		}
		if math.Abs(payment.Amount-gross) > 0.01 {
			return apperr.PaymentConflict("transaction %s amount %.2f does not match expected %.2f",
				n.TransactionID, gross, payment.Amount)
		}

		// A settled entry is immutable; only a refund may override it.
		if payment.Status == models.PaymentPaid && mapped != models.PaymentPaid && mapped != models.PaymentRefunded {
			log.Printf("[Payment] Ignoring %s notification for settled payment %s", n.TransactionStatus, payment.ID)
			return nil
		}

		payment.Status = mapped
		payment.GatewayStatus = n.TransactionStatus
		payment.Method = n.PaymentType
		if payment.Method == "" {
			payment.Method = "gateway"
		}
		if n.TransactionID != "" {
			payment.ExternalTransactionID = &n.TransactionID
		}

		if err := payments.Apply(&order, &payment, time.Now()); err != nil {
			return err
		}

		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if payment.Status == models.PaymentPaid {
			go func(o models.Order, p models.Payment) {
				if err := s.telegram.NotifyPaymentReceived(&o, &p); err != nil {
					log.Printf("[Payment] Telegram notification failed for %s: %v", o.OrderNumber, err)
				}
			}(order, payment)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ManualPaymentInput is a cashier-recorded payment.
type ManualPaymentInput struct {
	OrderID     string             `json:"order_id" validate:"required"`
	PaymentType models.PaymentType `json:"payment_type" validate:"required"`
	Amount      float64            `json:"amount" validate:"gt=0"`
	Method      string             `json:"method" validate:"required"`
}

// ApplyManual records a cash or transfer payment taken at the counter. It
// follows the same effect mapping as a gateway settlement but is verified
// immediately, with the acting cashier recorded.
func (s *PaymentService) ApplyManual(ctx context.Context, actor Actor, in ManualPaymentInput) (*models.Payment, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RoleCashier, models.RoleOwner:
	default:
		return nil, apperr.InvalidTransition("role %s may not record manual payments", actor.Role)
	}

	orderID, err := uuid.Parse(in.OrderID)
	if err != nil {
		return nil, apperr.Validation("invalid order id %q", in.OrderID)
	}

	var payment models.Payment

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %s not found", orderID)
			}
			return err
		}

		if order.Payment.IsPaid {
			return apperr.PaymentConflict("order %s is already fully paid", order.OrderNumber)
		}

		now := time.Now()
		payment = models.Payment{
			OrderID:        order.ID,
			PaymentType:    in.PaymentType,
			Amount:         in.Amount,
			Method:         in.Method,
			Status:         models.PaymentPaid,
			IsVerified:     true,
			VerifiedByID:   &actor.ID,
			VerifiedByName: actor.Name,
			VerifiedAt:     &now,
			PaidAt:         &now,
		}

		if err := payments.Apply(&order, &payment, now); err != nil {
			return err
		}

		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		go func(o models.Order, p models.Payment) {
			if err := s.telegram.NotifyPaymentReceived(&o, &p); err != nil {
				log.Printf("[Payment] Telegram notification failed for %s: %v", o.OrderNumber, err)
			}
		}(order, payment)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// VerifyManual marks a manual payment as confirmed by a second pair of
// eyes and flips the order's verification status once every paid entry is
// verified. Verification is separate from the production status.
func (s *PaymentService) VerifyManual(ctx context.Context, actor Actor, paymentID uuid.UUID) (*models.Payment, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RoleCashier, models.RoleOwner:
	default:
		return nil, apperr.InvalidTransition("role %s may not verify payments", actor.Role)
	}

	var payment models.Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment %s not found", paymentID)
			}
			return err
		}

		now := time.Now()
		payment.IsVerified = true
		payment.VerifiedByID = &actor.ID
		payment.VerifiedByName = actor.Name
		payment.VerifiedAt = &now
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		var unverified int64
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ? AND status = ? AND is_verified = false", payment.OrderID, models.PaymentPaid).
			Count(&unverified).Error; err != nil {
			return err
		}
		if unverified == 0 {
			if err := tx.Model(&models.Order{}).
				Where("id = ?", payment.OrderID).
				Update("verification_status", models.VerificationVerified).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}
