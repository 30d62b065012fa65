package auth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config carries process-wide auth settings. It is loaded once at startup
// and never derived from request data.
type Config struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
	Production bool
}

// placeholder secrets that must never make it into a production deployment
var insecureSecrets = map[string]bool{
	"dev-secret-key":       true,
	"your-secret-key-here": true,
	"your-jwt-secret-key":  true,
	"secret":               true,
	"changeme":             true,
}

const minProductionSecretLen = 32

var (
	ErrSecretMissing  = errors.New("JWT_SECRET is not set")
	ErrSecretInsecure = errors.New("JWT_SECRET is a known placeholder or too short for production")
	ErrTTLMissing     = errors.New("TOKEN_TTL must be set explicitly in production")
)

// ConfigFromEnv reads auth config from environment variables. A missing or
// placeholder signing key refuses startup rather than running insecurely.
func ConfigFromEnv() (Config, error) {
	prod := os.Getenv("APP_ENV") == "production"

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, ErrSecretMissing
	}
	if prod && (insecureSecrets[secret] || len(secret) < minProductionSecretLen) {
		return Config{}, ErrSecretInsecure
	}

	ttlEnv := os.Getenv("TOKEN_TTL")
	var ttl time.Duration
	switch {
	case ttlEnv != "":
		d, err := time.ParseDuration(ttlEnv)
		if err != nil {
			return Config{}, fmt.Errorf("parse TOKEN_TTL: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("TOKEN_TTL must be positive, got %s", d)
		}
		ttl = d
	case prod:
		return Config{}, ErrTTLMissing
	default:
		ttl = time.Hour
	}

	cost := bcrypt.DefaultCost
	if c := os.Getenv("BCRYPT_COST"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			return Config{}, fmt.Errorf("invalid BCRYPT_COST %q", c)
		}
		cost = n
	}

	return Config{Secret: []byte(secret), TokenTTL: ttl, BcryptCost: cost, Production: prod}, nil
}
