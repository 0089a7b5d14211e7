// Package payments maps gateway settlement events onto an order's payment
// summary: vocabulary mapping, callback signature verification, and the
// reconciliation itself. Pure functions; persistence stays in services.
package payments

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
)

// Notification is the payload the gateway posts on every settlement event.
// Delivered at least once; duplicates per TransactionID must be idempotent.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	SignatureKey      string `json:"signature_key"`
	FraudStatus       string `json:"fraud_status"`
}

// MapGatewayStatus translates the gateway's settlement vocabulary into a
// ledger status. Unrecognized values are rejected, never silently mapped.
func MapGatewayStatus(transactionStatus string) (models.PaymentStatus, error) {
	switch transactionStatus {
	case "settlement", "capture":
		return models.PaymentPaid, nil
	case "pending":
		return models.PaymentPending, nil
	case "deny", "cancel", "expire":
		return models.PaymentExpired, nil
	case "refund":
		return models.PaymentRefunded, nil
	default:
		return "", apperr.Validation("unrecognized gateway transaction status %q", transactionStatus)
	}
}

// Signature computes the notification signature: sha512 over
// orderID+statusCode+grossAmount+serverKey.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifyNotification checks the payload signature against the server key.
// Failure is a hard rejection with no state change.
func VerifyNotification(n Notification, serverKey string) error {
	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) != 1 {
		return apperr.SignatureInvalid("notification signature mismatch for order %s", n.OrderID)
	}
	return nil
}
