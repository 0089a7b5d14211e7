// Package status gates order status transitions by actor role and payment
// preconditions.
package status

import (
	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
)

// All is the closed set of production statuses.
var All = []models.OrderStatus{
	models.StatusReceived,
	models.StatusProcessing,
	models.StatusProductionDone,
	models.StatusReadyToShip,
	models.StatusCompleted,
	models.StatusCancelled,
}

// Valid reports whether s is a known status.
func Valid(s models.OrderStatus) bool {
	for _, known := range All {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransition decides whether the actor's role may move an order from one
// status to another. isPaid is the order's settled flag; hasPaidPayment is
// whether any paid ledger entry exists (which blocks cancellation for
// everyone below admin).
func CanTransition(role models.Role, from, to models.OrderStatus, isPaid, hasPaidPayment bool) error {
	if !Valid(to) {
		return apperr.Validation("unknown status %q", to)
	}

	if role == models.RoleAdmin {
		return nil
	}

	if to == models.StatusCancelled {
		if from != models.StatusReceived {
			return apperr.InvalidTransition("order can only be cancelled while still received")
		}
		if hasPaidPayment {
			return apperr.InvalidTransition("order has a completed payment and can no longer be cancelled")
		}
		return nil
	}

	switch role {
	case models.RoleCashier:
		if to != models.StatusReceived && to != models.StatusReadyToShip {
			return apperr.InvalidTransition("cashier may only move orders to received or ready to ship")
		}
		if to == models.StatusReadyToShip && !isPaid {
			return apperr.InvalidTransition("payment must be completed before the order is ready to ship")
		}
		return nil

	case models.RoleStaff:
		switch to {
		case models.StatusProcessing, models.StatusProductionDone, models.StatusReadyToShip, models.StatusCompleted:
			return nil
		}
		return apperr.InvalidTransition("production staff may not move orders to %s", to)

	default:
		return apperr.InvalidTransition("role %s may not change order status", role)
	}
}
