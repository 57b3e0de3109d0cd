package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan tiers granted by a subscription.
const (
	PlanFree     = "Free"
	PlanStandard = "Standard"
	PlanPremium  = "Premium"
)

// User is a local account keyed by the identity provider subject.
type User struct {
	ID         string    `gorm:"type:char(36);primaryKey" bson:"_id" json:"id"`
	ExternalID string    `gorm:"type:varchar(191);uniqueIndex" bson:"external_id" json:"external_id" validate:"required,max=191"`
	Email      string    `gorm:"type:varchar(200);uniqueIndex" bson:"email" json:"email" validate:"required,email,max=200"`
	CustomerID string    `gorm:"type:varchar(191);default:''" bson:"customerId,omitempty" json:"customer_id,omitempty"`
	Plan       string    `gorm:"type:varchar(50);default:'Free'" bson:"plan,omitempty" json:"plan" validate:"omitempty,oneof=Free Standard Premium"`
	CreatedAt  time.Time `gorm:"autoCreateTime" bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" bson:"updated_at" json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.EnsureID()
	return nil
}

// EnsureID assigns a UUID when the user has none yet.
func (u *User) EnsureID() {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// NewUser builds a validated user for an identity provider subject.
func NewUser(externalID, email string) (*User, error) {
	u := &User{
		ExternalID: strings.TrimSpace(externalID),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Plan:       PlanFree,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	u.EnsureID()
	return u, nil
}

// HasCustomer reports whether a billing customer is linked.
func (u *User) HasCustomer() bool {
	return strings.TrimSpace(u.CustomerID) != ""
}

// EffectivePlan returns the stored plan or Free when unset.
func (u *User) EffectivePlan() string {
	if u.Plan == "" {
		return PlanFree
	}
	return u.Plan
}
