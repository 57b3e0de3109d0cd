package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Payment status values as reported by the checkout session.
const (
	PaymentStatusPaid              = "paid"
	PaymentStatusUnpaid            = "unpaid"
	PaymentStatusNoPaymentRequired = "no_payment_required"
	PaymentStatusPending           = "pending"
	PaymentStatusFailed            = "failed"
)

// Payment is the subscription/payment record of a user. There is at most one
// per user; checkouts overwrite it.
type Payment struct {
	ID            string    `gorm:"type:char(36);primaryKey" bson:"_id" json:"id"`
	UserID        string    `gorm:"type:char(36);not null;uniqueIndex" bson:"userId" json:"user_id"`
	Email         string    `gorm:"type:varchar(200);default:''" bson:"email" json:"email"`
	StartDate     time.Time `gorm:"type:timestamp;not null" bson:"startDate" json:"start_date"`
	EndDate       time.Time `gorm:"type:timestamp;not null" bson:"endDate" json:"end_date"`
	Country       string    `gorm:"type:varchar(2);default:''" bson:"country" json:"country"`
	City          string    `gorm:"type:varchar(120);default:''" bson:"city" json:"city"`
	Address       string    `gorm:"type:varchar(255);default:''" bson:"address" json:"address"`
	ZipCode       string    `gorm:"type:varchar(32);default:''" bson:"zipCode" json:"zip_code"`
	TransactionID string    `gorm:"type:varchar(191);default:''" bson:"transactionId" json:"transaction_id"`
	AmountTotal   int64     `gorm:"not null;default:0" bson:"amountTotal" json:"amount_total"`
	Currency      string    `gorm:"type:varchar(3);default:'usd'" bson:"currency" json:"currency"`
	Status        string    `gorm:"type:varchar(32);not null;default:'unpaid'" bson:"status" json:"status"`
	PaymentMethod string    `gorm:"type:varchar(32);default:''" bson:"paymentMethod" json:"payment_method"`
	Plan          string    `gorm:"type:varchar(50);not null" bson:"plan" json:"plan"`
	Period        string    `gorm:"type:varchar(16);not null" bson:"period" json:"period"`
	CreatedAt     time.Time `gorm:"autoCreateTime" bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" bson:"updated_at" json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	p.EnsureID()
	return nil
}

func (p *Payment) EnsureID() {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
}

// Amount returns the total in major currency units.
func (p *Payment) Amount() float64 {
	return float64(p.AmountTotal) / 100
}

// FormattedAmount renders the total like "$12.00" for USD, "12.00 EUR" otherwise.
func (p *Payment) FormattedAmount() string {
	cur := strings.ToUpper(strings.TrimSpace(p.Currency))
	if cur == "" || cur == "USD" {
		return fmt.Sprintf("$%.2f", p.Amount())
	}
	return fmt.Sprintf("%.2f %s", p.Amount(), cur)
}

// IsActive reports whether the paid period covers t.
func (p *Payment) IsActive(t time.Time) bool {
	return p.Status == PaymentStatusPaid && !t.Before(p.StartDate) && t.Before(p.EndDate)
}
