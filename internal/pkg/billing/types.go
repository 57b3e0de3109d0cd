package billing

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	DeliveryID      string
}

// EventOutcome describes what happened to a verified webhook delivery.
type EventOutcome string

const (
	OutcomeProcessed EventOutcome = "processed"
	OutcomeIgnored   EventOutcome = "ignored"
	OutcomeDuplicate EventOutcome = "duplicate"
)

// Webhook event types handled by the service.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
)
