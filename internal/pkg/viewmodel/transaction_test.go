package viewmodel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTransactionRows(t *testing.T) {
	older := models.Payment{
		StartDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), TransactionID: "in_old",
		Email: "a@example.com", Plan: models.PlanStandard, PaymentMethod: "card",
		AmountTotal: 1200, Currency: "usd", Status: models.PaymentStatusPaid,
	}
	newer := models.Payment{
		StartDate: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		Email:     "a@example.com", Plan: models.PlanPremium, PaymentMethod: "paypal",
		AmountTotal: 9900, Currency: "usd", Status: models.PaymentStatusPending,
	}

	rows := BuildTransactionRows([]models.Payment{older, newer})
	require.Len(t, rows, 2)

	assert.Equal(t, "March 9, 2024", rows[0].OrderDate)
	assert.Equal(t, "N/A", rows[0].TransactionID)
	assert.Equal(t, "$99.00", rows[0].Price)
	assert.Equal(t, "Premium", rows[0].Package)
	assert.Equal(t, "/img/payment/paypal.svg", rows[0].MethodIcon)
	assert.Contains(t, rows[0].StatusClass, "yellow")

	assert.Equal(t, "January 5, 2024", rows[1].OrderDate)
	assert.Equal(t, "in_old", rows[1].TransactionID)
	assert.Equal(t, "$12.00", rows[1].Price)
	assert.Contains(t, rows[1].StatusClass, "green")
}

func TestBuildTransactionRowsEmpty(t *testing.T) {
	rows := BuildTransactionRows(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestStatusClass(t *testing.T) {
	assert.Contains(t, StatusClass("PAID"), "green")
	assert.Contains(t, StatusClass("failed"), "yellow")
	assert.Contains(t, StatusClass("unpaid"), "yellow")
	assert.Contains(t, StatusClass("no_payment_required"), "gray")
}

func TestBuildTransactionRowsDoesNotReorderInput(t *testing.T) {
	in := []models.Payment{
		{StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), TransactionID: "a"},
		{StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TransactionID: "b"},
	}
	BuildTransactionRows(in)
	assert.Equal(t, "a", in[0].TransactionID)
}

func TestMethodIconsAreShipped(t *testing.T) {
	for _, method := range []string{"card", "PayPal", "sepa_debit"} {
		icon := MethodIcon(method)
		require.NotEmpty(t, icon, method)
		_, err := os.Stat(filepath.Join("../../../public/assets", filepath.FromSlash(icon)))
		assert.NoError(t, err, icon)
	}
	assert.Empty(t, MethodIcon(""))
}
