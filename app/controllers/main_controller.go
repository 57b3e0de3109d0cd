package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/morshidulrahman/testomg-babe/app/models"
)

func renderPage(c *fiber.Ctx, template, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Layout"] = layoutFor(c, title, template)
	return c.Render(template, data, "layouts/main")
}

func HandleHome(c *fiber.Ctx) error {
	return renderPage(c, "index", "Home", nil)
}

func HandlePricing(c *fiber.Ctx) error {
	return renderPage(c, "pricing", "Pricing", fiber.Map{
		"Plans": []fiber.Map{
			{"Name": models.PlanStandard, "Period": models.PeriodMonthly},
			{"Name": models.PlanPremium, "Period": models.PeriodYearly},
		},
	})
}

// HandleSignIn shows the identity provider's sign-in widget.
func HandleSignIn(c *fiber.Ctx) error {
	return renderPage(c, "sign_in", "Sign in", fiber.Map{
		"RedirectURL": c.Query("redirect_url", "/dashboard"),
	})
}

func HandleDashboard(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := currentUser(ctx, c)
	if err != nil {
		log.Errorf("[Dashboard] Failed to load user: %v", err)
		return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
			"Layout":  layoutFor(c, "Error", "error"),
			"Message": "Your account could not be loaded.",
		}, "layouts/main")
	}

	layout := layoutFor(c, "Dashboard", "dashboard")
	layout.Plan = user.EffectivePlan()
	return c.Render("dashboard", fiber.Map{
		"Layout": layout,
		"User":   user,
	}, "layouts/main")
}

func HandleChat(c *fiber.Ctx) error {
	return renderPage(c, "chat", "Chat", nil)
}

func HandleMeet(c *fiber.Ctx) error {
	return renderPage(c, "meet", "Meet", fiber.Map{"Room": c.Params("*")})
}
