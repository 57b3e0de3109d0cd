package viewmodel

import (
	"sort"
	"strings"

	"github.com/morshidulrahman/testomg-babe/app/models"
)

// DateLayout renders order dates like "January 2, 2006".
const DateLayout = "January 2, 2006"

// TransactionRow is one formatted line of the transaction history.
type TransactionRow struct {
	OrderDate     string `json:"order_date"`
	TransactionID string `json:"transaction_id"`
	Email         string `json:"email"`
	Package       string `json:"package"`
	PaymentMethod string `json:"payment_method"`
	MethodIcon    string `json:"method_icon"`
	Price         string `json:"price"`
	Status        string `json:"status"`
	StatusClass   string `json:"status_class"`
}

// BuildTransactionRows formats payments newest first.
func BuildTransactionRows(payments []models.Payment) []TransactionRow {
	sorted := make([]models.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.After(sorted[j].StartDate)
	})

	rows := make([]TransactionRow, 0, len(sorted))
	for i := range sorted {
		p := &sorted[i]
		txID := strings.TrimSpace(p.TransactionID)
		if txID == "" {
			txID = "N/A"
		}
		rows = append(rows, TransactionRow{
			OrderDate:     p.StartDate.Format(DateLayout),
			TransactionID: txID,
			Email:         p.Email,
			Package:       p.Plan,
			PaymentMethod: p.PaymentMethod,
			MethodIcon:    MethodIcon(p.PaymentMethod),
			Price:         p.FormattedAmount(),
			Status:        p.Status,
			StatusClass:   StatusClass(p.Status),
		})
	}
	return rows
}

// StatusClass maps a payment status to its badge style.
func StatusClass(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.PaymentStatusPaid:
		return "bg-green-100 text-green-800"
	case models.PaymentStatusFailed, models.PaymentStatusPending, models.PaymentStatusUnpaid:
		return "bg-yellow-100 text-yellow-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}

// MethodIcon returns the icon asset of a payment method type.
func MethodIcon(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "card":
		return "/img/payment/card.svg"
	case "paypal":
		return "/img/payment/paypal.svg"
	case "":
		return ""
	default:
		return "/img/payment/generic.svg"
	}
}
