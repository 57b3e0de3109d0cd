package billing

import (
	"testing"
	"time"

	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceCatalogResolve(t *testing.T) {
	catalog := NewPriceCatalog("price_month", " price_year ")
	start := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

	tier, err := catalog.Resolve("price_year")
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, tier.Plan)
	assert.Equal(t, models.PeriodYearly, tier.Period)
	assert.Equal(t, time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC), tier.ExpiresAt(start))

	tier, err = catalog.Resolve("price_month")
	require.NoError(t, err)
	assert.Equal(t, models.PlanStandard, tier.Plan)
	assert.Equal(t, models.PeriodMonthly, tier.Period)
	assert.Equal(t, start.AddDate(0, 1, 0), tier.ExpiresAt(start))
}

func TestPriceCatalogResolveUnknown(t *testing.T) {
	catalog := NewPriceCatalog("price_month", "price_year")

	_, err := catalog.Resolve("price_other")
	assert.ErrorIs(t, err, ErrUnknownPrice)

	_, err = catalog.Resolve("")
	assert.ErrorIs(t, err, ErrUnknownPrice)

	// an unconfigured id must not match an empty price
	_, err = NewPriceCatalog("", "price_year").Resolve("")
	assert.ErrorIs(t, err, ErrUnknownPrice)
}

func TestPriceCatalogPriceFor(t *testing.T) {
	catalog := NewPriceCatalog("price_month", "price_year")

	id, err := catalog.PriceFor("Monthly")
	require.NoError(t, err)
	assert.Equal(t, "price_month", id)

	id, err = catalog.PriceFor("yearly")
	require.NoError(t, err)
	assert.Equal(t, "price_year", id)

	_, err = catalog.PriceFor("weekly")
	assert.ErrorIs(t, err, ErrUnknownPrice)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		SecretKey:      "sk_test",
		WebhookSecret:  "whsec_test",
		MonthlyPriceID: "price_month",
		YearlyPriceID:  "price_year",
		PublicDomain:   "https://app.example.com",
	}
	assert.NoError(t, cfg.Validate())

	cfg.YearlyPriceID = "price_month"
	assert.Error(t, cfg.Validate())

	cfg.YearlyPriceID = "price_year"
	cfg.WebhookSecret = ""
	assert.Error(t, cfg.Validate())
}
