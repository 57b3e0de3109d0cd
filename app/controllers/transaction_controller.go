package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/morshidulrahman/testomg-babe/app/repository"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/viewmodel"
)

func loadTransactionRows(c *fiber.Ctx) ([]viewmodel.TransactionRow, error) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := currentUser(ctx, c)
	if err != nil {
		return nil, err
	}
	payments, err := repository.GetGlobalFactory().GetPaymentRepository().ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return viewmodel.BuildTransactionRows(payments), nil
}

// HandleGetUserTransactions returns the transaction history as JSON.
func HandleGetUserTransactions(c *fiber.Ctx) error {
	rows, err := loadTransactionRows(c)
	if err != nil {
		log.Errorf("[Transactions] Failed to load transactions: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transactions")
	}
	return c.JSON(fiber.Map{"transactions": rows})
}

// HandleDashboardTransactions renders the transaction history page.
func HandleDashboardTransactions(c *fiber.Ctx) error {
	rows, err := loadTransactionRows(c)
	if err != nil {
		log.Errorf("[Transactions] Failed to load transactions: %v", err)
		return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
			"Layout":  layoutFor(c, "Error", "error"),
			"Message": "Your transactions could not be loaded.",
		}, "layouts/main")
	}
	return c.Render("transactions", fiber.Map{
		"Layout":       layoutFor(c, "Transactions", "transactions"),
		"Transactions": rows,
	}, "layouts/main")
}
