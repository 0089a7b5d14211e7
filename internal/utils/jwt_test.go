package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/konveksi/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{Name: "Cashier One", Role: models.RoleCashier}
	user.ID = uuid.New()

	token, err := GenerateToken("secret", user, time.Hour)
	require.NoError(t, err)

	identity, err := ParseToken("secret", token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "Cashier One", identity.Name)
	assert.Equal(t, models.RoleCashier, identity.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{Role: models.RoleCustomer}
	user.ID = uuid.New()

	token, err := GenerateToken("secret", user, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("swordfish")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "swordfish"))
	assert.False(t, CheckPassword(hash, "tuna"))
}
