package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing provider constants used across billing-related models.
const (
	BillingProviderStripe = "stripe"
)

// BillingWebhookEvent stores provider webhook payloads with deduplication
// metadata for idempotent processing.
type BillingWebhookEvent struct {
	ID              string     `gorm:"type:char(36);primaryKey" bson:"_id" json:"id"`
	Provider        string     `gorm:"type:varchar(20);not null;index:ux_billing_webhook_events_provider_event,unique,priority:1" bson:"provider" json:"provider"`
	ProviderEventID string     `gorm:"type:varchar(191);not null;index:ux_billing_webhook_events_provider_event,unique,priority:2" bson:"provider_event_id" json:"provider_event_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" bson:"event_type" json:"event_type"`
	PayloadJSON     string     `gorm:"type:longtext;not null" bson:"payload_json" json:"payload_json"`
	DeliveryID      string     `gorm:"type:char(36);default:''" bson:"delivery_id" json:"delivery_id"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" bson:"processing_error" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" bson:"updated_at" json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (e *BillingWebhookEvent) BeforeCreate(tx *gorm.DB) error {
	e.EnsureID()
	return nil
}

func (e *BillingWebhookEvent) EnsureID() {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
}

// ProcessedOK reports whether a previous delivery finished without error.
func (e *BillingWebhookEvent) ProcessedOK() bool {
	return e != nil && e.ProcessedAt != nil && e.ProcessingError == ""
}
