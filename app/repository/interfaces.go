package repository

import (
	"context"
	"errors"

	"github.com/morshidulrahman/testomg-babe/app/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned by every store when a lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	EnsureFromIdentity(ctx context.Context, externalID, email string) (*models.User, error)
	UpdateCustomerID(ctx context.Context, id, customerID string) error
	UpdatePlan(ctx context.Context, id, plan string) error
}

// PaymentRepository defines the interface for subscription/payment records
type PaymentRepository interface {
	// UpsertByUser writes the record keyed on its UserID.
	UpsertByUser(ctx context.Context, payment *models.Payment) error
	GetByUserID(ctx context.Context, userID string) (*models.Payment, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Payment, error)
}

// WebhookEventRepository persists inbound billing webhook deliveries
type WebhookEventRepository interface {
	// CreateIfNotExists stores the event unless (provider, provider event id)
	// already exists and returns whether it was created plus the stored row.
	CreateIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkProcessed(ctx context.Context, id string, processingError string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Payment      PaymentRepository
	WebhookEvent WebhookEventRepository
}

// NewRepositories creates GORM-backed repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Payment:      NewPaymentRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
	}
}

func normalizeGormErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
