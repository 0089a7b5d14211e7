package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "KNV", cfg.OrderPrefix)
	assert.Equal(t, float64(30), cfg.DownPaymentPercent)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpires)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ORDER_PREFIX", "APRL")
	t.Setenv("DOWN_PAYMENT_PERCENT", "50")
	t.Setenv("JWT_TTL_HOURS", "2")

	cfg := Load()

	assert.Equal(t, "APRL", cfg.OrderPrefix)
	assert.Equal(t, float64(50), cfg.DownPaymentPercent)
	assert.Equal(t, 2*time.Hour, cfg.TokenExpires)
}
