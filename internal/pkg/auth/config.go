package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/env"
)

// Config describes the identity provider that issues session tokens.
type Config struct {
	Issuer     string `validate:"required,url"`
	Audience   string
	JWKSURL    string `validate:"omitempty,url"`
	EmailClaim string `validate:"required"`
}

// LoadConfig reads the auth configuration from the environment.
func LoadConfig() *Config {
	return &Config{
		Issuer:     strings.TrimSpace(env.GetEnv("AUTH_ISSUER", "")),
		Audience:   strings.TrimSpace(env.GetEnv("AUTH_AUDIENCE", "")),
		JWKSURL:    strings.TrimSpace(env.GetEnv("AUTH_JWKS_URL", "")),
		EmailClaim: strings.TrimSpace(env.GetEnv("AUTH_EMAIL_CLAIM", "email")),
	}
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// JWKSEndpoint returns the configured JWKS URL or the issuer's well-known one.
func (c *Config) JWKSEndpoint() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return strings.TrimRight(c.Issuer, "/") + "/.well-known/jwks.json"
}
