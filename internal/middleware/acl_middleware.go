package middleware

import (
	"github.com/gofiber/fiber/v2"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/pkg/database"
	"pixelwall_backend/pkg/utils/jwt"
)

// AdminOnly sadece admin hesapların erişimine izin verir
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		var user model.User
		if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		return c.Next()
	}
}
