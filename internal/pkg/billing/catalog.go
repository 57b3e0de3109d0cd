package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/morshidulrahman/testomg-babe/app/models"
)

// Tier is the plan granted by a price and the length of one billing period.
type Tier struct {
	Plan   string
	Period string
	years  int
	months int
}

// ExpiresAt returns the end of a period starting at start.
func (t Tier) ExpiresAt(start time.Time) time.Time {
	return start.AddDate(t.years, t.months, 0)
}

var (
	TierStandard = Tier{Plan: models.PlanStandard, Period: models.PeriodMonthly, months: 1}
	TierPremium  = Tier{Plan: models.PlanPremium, Period: models.PeriodYearly, years: 1}
)

// PriceCatalog maps the two configured price ids onto plan tiers.
type PriceCatalog struct {
	MonthlyPriceID string
	YearlyPriceID  string
}

func NewPriceCatalog(monthlyPriceID, yearlyPriceID string) PriceCatalog {
	return PriceCatalog{
		MonthlyPriceID: strings.TrimSpace(monthlyPriceID),
		YearlyPriceID:  strings.TrimSpace(yearlyPriceID),
	}
}

// Resolve returns the tier of priceID or ErrUnknownPrice.
func (c PriceCatalog) Resolve(priceID string) (Tier, error) {
	id := strings.TrimSpace(priceID)
	switch {
	case id == "":
	case id == c.YearlyPriceID:
		return TierPremium, nil
	case id == c.MonthlyPriceID:
		return TierStandard, nil
	}
	return Tier{}, fmt.Errorf("%w: %q", ErrUnknownPrice, priceID)
}

// PriceFor returns the price id sold for a billing period.
func (c PriceCatalog) PriceFor(period string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case models.PeriodMonthly:
		if c.MonthlyPriceID != "" {
			return c.MonthlyPriceID, nil
		}
	case models.PeriodYearly:
		if c.YearlyPriceID != "" {
			return c.YearlyPriceID, nil
		}
	}
	return "", fmt.Errorf("%w: period %q", ErrUnknownPrice, period)
}
