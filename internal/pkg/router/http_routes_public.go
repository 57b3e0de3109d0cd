package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/morshidulrahman/testomg-babe/app/controllers"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/", controllers.HandleHome)
	app.Get("/pricing", controllers.HandlePricing)
	app.Get("/sign-in", controllers.HandleSignIn)
}

// Gated by the auth middleware through the protected route patterns.
func (h HttpRouter) registerProtectedRoutes(app *fiber.App) {
	app.Get("/dashboard", controllers.HandleDashboard)
	app.Get("/dashboard/transactions", controllers.HandleDashboardTransactions)
	app.Get("/chat", controllers.HandleChat)
	app.Get("/meet", controllers.HandleMeet)
	app.Get("/meet/*", controllers.HandleMeet)
}
