package repository

import (
	"context"

	"github.com/morshidulrahman/testomg-babe/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

var paymentUpsertColumns = []string{
	"email", "start_date", "end_date", "country", "city", "address", "zip_code",
	"transaction_id", "amount_total", "currency", "status", "payment_method",
	"plan", "period", "updated_at",
}

// UpsertByUser inserts the payment or overwrites the existing row of the same
// user. The stored ID is written back into payment.
func (r *paymentRepository) UpsertByUser(ctx context.Context, payment *models.Payment) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(paymentUpsertColumns),
	}).Create(payment).Error
	if err != nil {
		return err
	}

	// Re-read to get the surviving row's ID and timestamps.
	stored, err := r.GetByUserID(ctx, payment.UserID)
	if err != nil {
		return err
	}
	payment.ID = stored.ID
	payment.CreatedAt = stored.CreatedAt
	payment.UpdatedAt = stored.UpdatedAt
	return nil
}

// GetByUserID returns the payment record of a user
func (r *paymentRepository) GetByUserID(ctx context.Context, userID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&payment).Error; err != nil {
		return nil, normalizeGormErr(err)
	}
	return &payment, nil
}

// ListByUserID returns a user's payments, newest start date first
func (r *paymentRepository) ListByUserID(ctx context.Context, userID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&payments).Error
	return payments, err
}
