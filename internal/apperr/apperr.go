// Package apperr defines the typed errors the order and payment core
// returns, and their mapping onto HTTP statuses.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an Error.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindInvalidTransition
	KindPaymentConflict
	KindSignatureInvalid
	KindPricingUncomputable
	KindPriceMismatch
)

// Error is a typed domain error with a human-readable reason.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Validation reports missing or malformed input, rejected before persistence.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports an unknown product, order or SKU combination.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a status change disallowed for the actor's role
// or blocked by a precondition.
func InvalidTransition(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Msg: fmt.Sprintf(format, args...)}
}

// PaymentConflict reports a duplicate transaction with a mismatched amount
// or an attempt to pay an already settled order.
func PaymentConflict(format string, args ...any) *Error {
	return &Error{Kind: KindPaymentConflict, Msg: fmt.Sprintf(format, args...)}
}

// SignatureInvalid reports a gateway callback failing verification.
func SignatureInvalid(format string, args ...any) *Error {
	return &Error{Kind: KindSignatureInvalid, Msg: fmt.Sprintf(format, args...)}
}

// PricingUncomputable reports degenerate pricing input where a non-zero
// total was required.
func PricingUncomputable(format string, args ...any) *Error {
	return &Error{Kind: KindPricingUncomputable, Msg: fmt.Sprintf(format, args...)}
}

// PriceMismatch reports caller-supplied pricing that disagrees with the
// server-side recomputation.
func PriceMismatch(format string, args ...any) *Error {
	return &Error{Kind: KindPriceMismatch, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ToFiber converts a domain error into the fiber error the HTTP layer
// returns. Unknown errors pass through untouched and surface as 500.
func ToFiber(err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}

	switch e.Kind {
	case KindValidation:
		return fiber.NewError(fiber.StatusBadRequest, e.Msg)
	case KindNotFound:
		return fiber.NewError(fiber.StatusNotFound, e.Msg)
	case KindInvalidTransition:
		return fiber.NewError(fiber.StatusForbidden, e.Msg)
	case KindPaymentConflict, KindPriceMismatch:
		return fiber.NewError(fiber.StatusConflict, e.Msg)
	case KindSignatureInvalid:
		return fiber.NewError(fiber.StatusForbidden, e.Msg)
	case KindPricingUncomputable:
		return fiber.NewError(fiber.StatusUnprocessableEntity, e.Msg)
	default:
		return err
	}
}
