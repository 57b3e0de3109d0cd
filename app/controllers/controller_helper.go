package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/morshidulrahman/testomg-babe/app/repository"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/usercontext"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/viewmodel"
	"github.com/sujit-baniya/flash"
)

const requestTimeout = 15 * time.Second

// requestContext bounds downstream calls of a handler.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// currentUser loads the local user of the signed-in identity, creating it on
// first visit.
func currentUser(ctx context.Context, c *fiber.Ctx) (*models.User, error) {
	uc := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetUserRepository()
	return repo.EnsureFromIdentity(ctx, uc.ExternalID, uc.Email)
}

func layoutFor(c *fiber.Ctx, title, page string) viewmodel.Layout {
	uc := usercontext.GetUserContext(c)
	l := viewmodel.NewLayout(title, page)
	l.IsLoggedIn = uc.IsLoggedIn
	l.Email = uc.Email
	l.Msg = flash.Get(c)
	return l
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}
