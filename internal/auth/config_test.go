package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv_DevDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "dev-only-signing-key")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("BCRYPT_COST", "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.Production)
}

func TestConfigFromEnv_SecretAlwaysRequired(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	_, err := ConfigFromEnv()
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestConfigFromEnv_ProductionRejectsPlaceholderSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_TTL", "4h")

	for _, secret := range []string{"dev-secret-key", "changeme", "short"} {
		t.Setenv("JWT_SECRET", secret)
		_, err := ConfigFromEnv()
		assert.ErrorIs(t, err, ErrSecretInsecure, "secret %q", secret)
	}
}

func TestConfigFromEnv_ProductionRequiresExplicitTTL(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TOKEN_TTL", "")

	_, err := ConfigFromEnv()
	assert.ErrorIs(t, err, ErrTTLMissing)

	t.Setenv("TOKEN_TTL", "24h")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.Production)
}

func TestConfigFromEnv_RejectsBadTTLAndCost(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "dev-only-signing-key")

	t.Setenv("TOKEN_TTL", "-1h")
	_, err := ConfigFromEnv()
	assert.Error(t, err)

	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("BCRYPT_COST", "99")
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}
