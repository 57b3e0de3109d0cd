package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/morshidulrahman/testomg-babe/app/controllers"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/middleware"
)

type ApiRouter struct {
	deps Dependencies
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Registered ahead of the limited group so Stripe bursts are never throttled.
	app.Post("/api/webhooks/stripe", controllers.HandleStripeWebhook)

	api := app.Group("/api", cors.New(cors.Config{
		AllowOrigins:     h.deps.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: h.deps.AllowOrigins != "*",
	}), limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Storage:    h.deps.LimiterStorage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "too_many_requests",
				"message": "Rate limit exceeded",
			})
		},
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1", middleware.RequireAPIAuth)
	v1.Get("/user/account", controllers.HandleGetUserAccount)
	v1.Get("/user/transactions", controllers.HandleGetUserTransactions)
	v1.Post("/billing/checkout", controllers.HandleBillingCheckout)
	v1.Post("/billing/portal", controllers.HandleBillingPortal)
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}
