package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "nok", cfg.StripeCurrency)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STRIPE_CURRENCY", "eur")
	t.Setenv("OTP_TTL_MINUTES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "eur", cfg.StripeCurrency)
	assert.Equal(t, float64(5), cfg.OTPTTL.Minutes())
}

func TestLoad_BadOTPTTLFallsBack(t *testing.T) {
	t.Setenv("OTP_TTL_MINUTES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, float64(10), cfg.OTPTTL.Minutes())
}
