package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/morshidulrahman/testomg-babe/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, normalizeGormErr(err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address (case-insensitive)
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, normalizeGormErr(err)
	}
	return &user, nil
}

// GetByExternalID retrieves a user by identity provider subject
func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, normalizeGormErr(err)
	}
	return &user, nil
}

// EnsureFromIdentity returns the user for a provider subject, creating it on
// first sight. An existing user keeps its stored email.
func (r *userRepository) EnsureFromIdentity(ctx context.Context, externalID, email string) (*models.User, error) {
	existing, err := r.GetByExternalID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user, err := models.NewUser(externalID, email)
	if err != nil {
		return nil, err
	}
	if err := r.Create(ctx, user); err != nil {
		// Lost a race with a concurrent request for the same subject.
		if again, getErr := r.GetByExternalID(ctx, externalID); getErr == nil {
			return again, nil
		}
		return nil, err
	}
	return user, nil
}

// UpdateCustomerID stores the billing customer reference
func (r *userRepository) UpdateCustomerID(ctx context.Context, id, customerID string) error {
	return r.updateColumn(ctx, id, "customer_id", customerID)
}

// UpdatePlan stores the user's current plan tier
func (r *userRepository) UpdatePlan(ctx context.Context, id, plan string) error {
	return r.updateColumn(ctx, id, "plan", plan)
}

func (r *userRepository) updateColumn(ctx context.Context, id, column, value string) error {
	tx := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		// MySQL reports 0 affected rows when the value is unchanged.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}
