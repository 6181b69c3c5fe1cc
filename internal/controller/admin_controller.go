package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"pixelwall_backend/pkg/credits"
	"pixelwall_backend/pkg/email"
)

var ledger *credits.Ledger

func InitAdminController(creditLedger *credits.Ledger) {
	ledger = creditLedger
}

type GrantPixelsInput struct {
	Pixels int `json:"pixels" validate:"required"`
}

// GrantPixels bir hesaba serbest miktarda pixel yükler (admin)
func GrantPixels(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	input := new(GrantPixelsInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := ledger.GrantCustom(uint(userID), input.Pixels); err != nil {
		if errors.Is(err, credits.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Pixel amount must be positive",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not grant pixels",
		})
	}

	if email.GlobalEmailService != nil {
		if user, err := accounts.GetByID(uint(userID)); err == nil {
			if err := email.GlobalEmailService.SendPixelsGrantedEmail(user.Email, user.Username, input.Pixels, "admin grant"); err != nil {
				log.Printf("Could not send pixel grant email: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "Pixels granted successfully",
	})
}
