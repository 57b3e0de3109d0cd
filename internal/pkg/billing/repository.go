package billing

import (
	"context"

	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/morshidulrahman/testomg-babe/app/repository"
)

// Repository provides the persistence operations used by the billing service.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserCustomerID(ctx context.Context, userID, customerID string) error
	UpdateUserPlan(ctx context.Context, userID, plan string) error
	UpsertPayment(ctx context.Context, payment *models.Payment) error
	CreateWebhookEventIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, id string, processingError string) error
}

type storeRepository struct {
	repos *repository.Repositories
}

// NewRepository creates a billing repository on top of the configured stores.
func NewRepository(repos *repository.Repositories) Repository {
	return &storeRepository{repos: repos}
}

func (r *storeRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.repos.User.GetByEmail(ctx, email)
}

func (r *storeRepository) UpdateUserCustomerID(ctx context.Context, userID, customerID string) error {
	return r.repos.User.UpdateCustomerID(ctx, userID, customerID)
}

func (r *storeRepository) UpdateUserPlan(ctx context.Context, userID, plan string) error {
	return r.repos.User.UpdatePlan(ctx, userID, plan)
}

func (r *storeRepository) UpsertPayment(ctx context.Context, payment *models.Payment) error {
	return r.repos.Payment.UpsertByUser(ctx, payment)
}

func (r *storeRepository) CreateWebhookEventIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	return r.repos.WebhookEvent.CreateIfNotExists(ctx, event)
}

func (r *storeRepository) MarkWebhookProcessed(ctx context.Context, id string, processingError string) error {
	return r.repos.WebhookEvent.MarkProcessed(ctx, id, processingError)
}
