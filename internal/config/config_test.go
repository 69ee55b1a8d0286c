package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 5, cfg.VerificationCodeTTLMinutes)
	assert.Equal(t, 10, cfg.VerificationSweepMinutes)
	assert.Equal(t, "https://api.paymongo.com/v1", cfg.PayMongo.BaseURL)
	assert.Contains(t, cfg.Database.DSN, "tcp(localhost:3306)/clinic")
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "clinic_prod")
	t.Setenv("VERIFICATION_CODE_TTL_MINUTES", "2")
	t.Setenv("PAYMONGO_SECRET_KEY", "sk_test_123")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2, cfg.VerificationCodeTTLMinutes)
	assert.Equal(t, "sk_test_123", cfg.PayMongo.SecretKey)
	assert.Contains(t, cfg.Database.DSN, "tcp(db.internal:3306)/clinic_prod")
}

func TestLoadConfigRejectsBadNumbers(t *testing.T) {
	t.Setenv("VERIFICATION_CODE_TTL_MINUTES", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}
