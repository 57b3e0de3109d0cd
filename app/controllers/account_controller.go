package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/morshidulrahman/testomg-babe/app/repository"
)

// PlanCache serves recently resolved plans.
type PlanCache interface {
	GetPlan(ctx context.Context, userID string) (string, bool, error)
	SetPlan(ctx context.Context, userID, plan string) error
}

var accountPlanCache PlanCache

// InitializeAccountController wires the optional plan cache.
func InitializeAccountController(cache PlanCache) {
	accountPlanCache = cache
}

// HandleGetUserAccount returns plan and billing details of the signed-in user.
func HandleGetUserAccount(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := currentUser(ctx, c)
	if err != nil {
		log.Errorf("[Account] Failed to load user: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	payment, err := repository.GetGlobalFactory().GetPaymentRepository().GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Errorf("[Account] Failed to load payment of user %s: %v", user.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load subscription")
	}

	return c.JSON(fiber.Map{
		"id":             user.ID,
		"email":          user.Email,
		"plan":           resolvePlan(ctx, user),
		"customer_id":    user.CustomerID,
		"has_customer":   user.HasCustomer(),
		"current_period": currentPeriod(payment),
	})
}

func resolvePlan(ctx context.Context, user *models.User) string {
	if accountPlanCache == nil {
		return user.EffectivePlan()
	}
	if plan, ok, err := accountPlanCache.GetPlan(ctx, user.ID); err == nil && ok {
		return plan
	} else if err != nil {
		log.Warnf("[Account] Plan cache read failed: %v", err)
	}
	plan := user.EffectivePlan()
	if err := accountPlanCache.SetPlan(ctx, user.ID, plan); err != nil {
		log.Warnf("[Account] Plan cache write failed: %v", err)
	}
	return plan
}

func currentPeriod(p *models.Payment) interface{} {
	if p == nil {
		return nil
	}
	return fiber.Map{
		"plan":       p.Plan,
		"period":     p.Period,
		"status":     p.Status,
		"start_date": p.StartDate.UTC().Format(time.RFC3339),
		"end_date":   p.EndDate.UTC().Format(time.RFC3339),
		"active":     p.IsActive(time.Now()),
	}
}
