package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"pixelwall_backend/pkg/promo"
	"pixelwall_backend/pkg/utils/jwt"
)

var issuer *promo.Issuer

func InitPromoController(promoIssuer *promo.Issuer) {
	issuer = promoIssuer
}

type GeneratePromoInput struct {
	Pixels         int        `json:"pixels" validate:"required"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

type RedeemPromoInput struct {
	Code string `json:"code" validate:"required"`
}

// GeneratePromoCode yeni promo kodu üretir (admin)
func GeneratePromoCode(c *fiber.Ctx) error {
	input := new(GeneratePromoInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	code, err := issuer.Generate(input.Pixels, input.ExpirationDate)
	if err != nil {
		if errors.Is(err, promo.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Pixel amount must be positive",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate promo code",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(code)
}

// DeletePromoCode kodu siler (admin)
func DeletePromoCode(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid promo code ID",
		})
	}

	if err := issuer.Delete(uint(id)); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Promo code not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Promo code deleted successfully",
	})
}

// ListPromoCodes tüm kodları döner (admin)
func ListPromoCodes(c *fiber.Ctx) error {
	codes, err := issuer.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch promo codes",
		})
	}

	return c.JSON(codes)
}

// RedeemPromoCode kodu kullanıp pixel yükler; kod en fazla bir kez kullanılabilir
func RedeemPromoCode(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(RedeemPromoInput)
	if err := c.BodyParser(input); err != nil || input.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	pixels, err := issuer.Redeem(input.Code, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, promo.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Promo code not found",
			})
		case errors.Is(err, promo.ErrExpired):
			return c.Status(fiber.StatusGone).JSON(fiber.Map{
				"error": "Promo code expired",
			})
		case errors.Is(err, promo.ErrAlreadyRedeemed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Promo code already redeemed",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not redeem promo code",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Promo code redeemed successfully",
		"pixels":  pixels,
	})
}
