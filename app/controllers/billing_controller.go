package controllers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/billing"
)

type checkoutRequest struct {
	Period string `json:"period" validate:"required,oneof=monthly yearly"`
}

var validate = validator.New()

// HandleBillingCheckout starts a Stripe Checkout session for the signed-in user.
func HandleBillingCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.Period = strings.ToLower(strings.TrimSpace(req.Period))
	if err := validate.Struct(req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "period must be monthly or yearly")
	}

	if billingService == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "billing_unavailable", "Billing is not configured")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := currentUser(ctx, c)
	if err != nil {
		log.Errorf("[Billing] Failed to load user: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	url, err := billingService.CreateCheckoutSession(ctx, user, req.Period)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPrice) {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Plan is not available")
		}
		log.Errorf("[Billing] Checkout for user %s failed: %v", user.ID, err)
		return jsonError(c, fiber.StatusBadGateway, "checkout_failed", "Failed to create checkout session")
	}
	return c.JSON(fiber.Map{"url": url})
}

// HandleBillingPortal opens the Stripe billing portal for the signed-in user.
func HandleBillingPortal(c *fiber.Ctx) error {
	if billingService == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "billing_unavailable", "Billing is not configured")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := currentUser(ctx, c)
	if err != nil {
		log.Errorf("[Billing] Failed to load user: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	url, err := billingService.CreatePortalSession(ctx, user)
	if err != nil {
		if errors.Is(err, billing.ErrNoCustomer) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "No billing account yet")
		}
		log.Errorf("[Billing] Portal for user %s failed: %v", user.ID, err)
		return jsonError(c, fiber.StatusBadGateway, "portal_failed", "Failed to create portal session")
	}
	return c.JSON(fiber.Map{"url": url})
}
