package billing

import (
	"github.com/go-playground/validator/v10"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/env"
)

// Config holds the Stripe settings of the billing service.
type Config struct {
	SecretKey      string `validate:"required"`
	WebhookSecret  string `validate:"required"`
	MonthlyPriceID string `validate:"required,nefield=YearlyPriceID"`
	YearlyPriceID  string `validate:"required"`
	PublicDomain   string `validate:"required,url"`
}

// LoadConfig reads the billing configuration from the environment.
func LoadConfig() *Config {
	return &Config{
		SecretKey:      env.GetEnv("STRIPE_SECRET_KEY", ""),
		WebhookSecret:  env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		MonthlyPriceID: env.GetEnv("STRIPE_MONTHLY_PRICE_ID", ""),
		YearlyPriceID:  env.GetEnv("STRIPE_YEARLY_PRICE_ID", ""),
		PublicDomain:   env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000"),
	}
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Catalog returns the price catalog of the configured price ids.
func (c *Config) Catalog() PriceCatalog {
	return NewPriceCatalog(c.MonthlyPriceID, c.YearlyPriceID)
}
