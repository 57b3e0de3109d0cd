package usercontext

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// UserContext represents the signed-in identity of a request
type UserContext struct {
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	IsLoggedIn bool      `json:"is_logged_in"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Set stores the user context on the request.
func Set(c *fiber.Ctx, uc UserContext) {
	c.Locals(KeyUserContext, uc)
	c.Locals(KeyFromProtected, uc.IsLoggedIn)
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if uc, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return uc
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetExternalID returns the identity provider subject, or "" if not logged in
func GetExternalID(c *fiber.Ctx) string {
	return GetUserContext(c).ExternalID
}
