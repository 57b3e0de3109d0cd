package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/billing"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/metrics/counter"
	"github.com/stripe/stripe-go/v79"
)

// BillingService is what the billing handlers need from the billing package.
type BillingService interface {
	ProcessEvent(ctx context.Context, event stripe.Event, payload []byte, deliveryID string) (billing.EventOutcome, error)
	CreateCheckoutSession(ctx context.Context, user *models.User, period string) (string, error)
	CreatePortalSession(ctx context.Context, user *models.User) (string, error)
}

// WebhookCounter tallies delivery outcomes.
type WebhookCounter interface {
	AddWebhookOutcome(ctx context.Context, outcome string) error
	WebhookOutcomes(ctx context.Context) (map[string]int64, error)
}

var (
	billingService BillingService
	webhookSecret  string
	webhookCounter WebhookCounter
)

// InitializeBillingController wires the billing handlers.
func InitializeBillingController(svc BillingService, stripeWebhookSecret string) {
	billingService = svc
	webhookSecret = stripeWebhookSecret
}

// InitializeWebhookCounter enables outcome tallies; nil disables them.
func InitializeWebhookCounter(c WebhookCounter) {
	webhookCounter = c
}

func countWebhookOutcome(outcome string) {
	if webhookCounter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := webhookCounter.AddWebhookOutcome(ctx, outcome); err != nil {
		log.Warnf("[Webhook] Failed to count outcome %s: %v", outcome, err)
	}
}

// HandleStripeWebhook verifies and reconciles a Stripe event delivery.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.BodyRaw()...)
	deliveryID := uuid.NewString()

	event, err := billing.VerifyWebhook(payload, c.Get(billing.SignatureHeader), webhookSecret)
	if err != nil {
		log.Warnf("[Webhook] delivery=%s signature verification failed: %v", deliveryID, err)
		countWebhookOutcome(counter.OutcomeInvalidSignature)
		return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	if billingService == nil {
		log.Errorf("[Webhook] delivery=%s billing service not initialized", deliveryID)
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	outcome, err := billingService.ProcessEvent(ctx, event, payload, deliveryID)
	if err != nil {
		log.Errorf("[Webhook] delivery=%s event=%s type=%s failed: %v", deliveryID, event.ID, event.Type, err)
		countWebhookOutcome(counter.OutcomeFailed)
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error")
	}

	log.Infof("[Webhook] delivery=%s event=%s type=%s %s", deliveryID, event.ID, event.Type, outcome)
	countWebhookOutcome(string(outcome))
	return c.Status(fiber.StatusOK).SendString("Webhook received")
}

// HandleWebhookStats returns the delivery outcome tallies.
func HandleWebhookStats(c *fiber.Ctx) error {
	if webhookCounter == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "unavailable", "Webhook counters are disabled")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	outcomes, err := webhookCounter.WebhookOutcomes(ctx)
	if err != nil {
		log.Errorf("[Webhook] Failed to read outcome counters: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read counters")
	}
	return c.JSON(fiber.Map{"outcomes": outcomes})
}
