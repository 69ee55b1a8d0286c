package utils

import (
	"testing"

	"clinic-appointment-server/internal/config"
	"clinic-appointment-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "access_secret",
		JWTRefreshSecret:          "refresh_secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 168,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := testConfig()
	admin := &models.Admin{
		BaseModel: models.BaseModel{ID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		Role:      models.RoleAdmin,
	}

	access, refresh, err := GenerateTokens(admin, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := ValidateToken(access, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	refreshClaims, err := ValidateToken(refresh, cfg.JWTRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, refreshClaims.AdminID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	admin := &models.Admin{BaseModel: models.BaseModel{ID: "abc"}, Role: models.RoleStaff}

	access, _, err := GenerateTokens(admin, cfg)
	require.NoError(t, err)

	_, err = ValidateToken(access, "some_other_secret")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "access_secret")
	assert.Error(t, err)
}
