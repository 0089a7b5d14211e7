package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
)

func TestCashierReadyToShipRequiresPayment(t *testing.T) {
	err := CanTransition(models.RoleCashier, models.StatusProductionDone, models.StatusReadyToShip, false, true)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	err = CanTransition(models.RoleCashier, models.StatusProductionDone, models.StatusReadyToShip, true, true)
	assert.NoError(t, err)
}

func TestAdminMayMoveAnywhere(t *testing.T) {
	for _, from := range All {
		for _, to := range All {
			assert.NoError(t, CanTransition(models.RoleAdmin, from, to, false, false))
		}
	}
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{name: "cashier back to received", role: models.RoleCashier, from: models.StatusProcessing, to: models.StatusReceived, allowed: true},
		{name: "cashier to processing", role: models.RoleCashier, from: models.StatusReceived, to: models.StatusProcessing, allowed: false},
		{name: "staff to processing", role: models.RoleStaff, from: models.StatusReceived, to: models.StatusProcessing, allowed: true},
		{name: "staff to production done", role: models.RoleStaff, from: models.StatusProcessing, to: models.StatusProductionDone, allowed: true},
		{name: "staff to completed", role: models.RoleStaff, from: models.StatusReadyToShip, to: models.StatusCompleted, allowed: true},
		{name: "staff back to received", role: models.RoleStaff, from: models.StatusProcessing, to: models.StatusReceived, allowed: false},
		{name: "customer to processing", role: models.RoleCustomer, from: models.StatusReceived, to: models.StatusProcessing, allowed: false},
		{name: "owner to completed", role: models.RoleOwner, from: models.StatusReadyToShip, to: models.StatusCompleted, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.role, tt.from, tt.to, true, false)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
			}
		})
	}
}

func TestCancellationRules(t *testing.T) {
	// Customers may self-cancel a received, unpaid order.
	assert.NoError(t, CanTransition(models.RoleCustomer, models.StatusReceived, models.StatusCancelled, false, false))

	// Not once any payment cleared.
	err := CanTransition(models.RoleCustomer, models.StatusReceived, models.StatusCancelled, false, true)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	// Not once production started.
	err = CanTransition(models.RoleCustomer, models.StatusProcessing, models.StatusCancelled, false, false)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	// Admin can intervene regardless.
	assert.NoError(t, CanTransition(models.RoleAdmin, models.StatusProcessing, models.StatusCancelled, false, true))
}

func TestUnknownStatusRejected(t *testing.T) {
	err := CanTransition(models.RoleAdmin, models.StatusReceived, models.OrderStatus("shipped"), false, false)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
