package controller

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/pkg/billing"
	"pixelwall_backend/pkg/database"
	"pixelwall_backend/pkg/email"
	"pixelwall_backend/pkg/plan"
	"pixelwall_backend/pkg/utils/jwt"
)

var (
	adapter         *billing.Adapter
	provider        billing.Provider
	webhookSecret   string
	checkoutBaseURL string
)

func InitSubscriptionController(a *billing.Adapter, p billing.Provider, secret, baseURL string) {
	adapter = a
	provider = p
	webhookSecret = secret
	checkoutBaseURL = baseURL
}

type ChangePlanInput struct {
	Tier string `json:"tier" validate:"required"`
}

func ListPlans(c *fiber.Ctx) error {
	var plans []model.Plan
	if err := database.GetDB().Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription plans",
		})
	}

	return c.JSON(plans)
}

// findPlanByTier katalogdan kademeyi getirir
func findPlanByTier(tier string) (*model.Plan, error) {
	var p model.Plan
	if err := database.GetDB().First(&p, "tier = ?", tier).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateCheckoutSession seçilen kademe için Stripe checkout oturumu açar.
// Stripe customer kaydı ilk ödeme etkileşiminde tembelce oluşturulur.
func CreateCheckoutSession(c *fiber.Ctx) error {
	input := new(ChangePlanInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	tier := plan.Type(input.Tier)
	if !plan.IsPaid(tier) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown plan tier",
		})
	}

	catalogPlan, err := findPlanByTier(input.Tier)
	if err != nil || catalogPlan.StripePriceID == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription plan not found",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)
	user, err := accounts.GetByID(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	customerRef := user.StripeCustomerID
	if customerRef == "" {
		customerRef, err = provider.CreateCustomer(user.Email, user.Username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not create Stripe customer",
			})
		}
		if err := accounts.SetCustomerRef(user.ID, customerRef); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save customer reference",
			})
		}
	}

	checkoutURL, err := provider.CreateCheckoutSession(billing.CheckoutParams{
		UserID:      user.ID,
		Tier:        tier,
		CustomerRef: customerRef,
		PriceID:     catalogPlan.StripePriceID,
		SuccessURL:  checkoutBaseURL + "/api/subscriptions/payment-success",
		CancelURL:   checkoutBaseURL + "/api/subscriptions/payment-cancelled",
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": checkoutURL,
	})
}

// CancelSubscription aboneliği dönem sonunda bitecek şekilde işaretler
func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	periodEnd, err := adapter.Cancel(claims.UserID)
	if err != nil {
		if errors.Is(err, billing.ErrNoActiveSubscription) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No active subscription found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel subscription",
		})
	}

	if email.GlobalEmailService != nil && periodEnd > 0 {
		if user, err := accounts.GetByID(claims.UserID); err == nil {
			err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
				user.Email,
				user.Username,
				user.Plan,
				time.Unix(periodEnd, 0),
			)
			if err != nil {
				log.Printf("Could not send subscription cancellation email: %v", err)
			}
		}
	}

	resp := fiber.Map{
		"message": "Subscription will be cancelled at the end of the current period",
	}
	if periodEnd > 0 {
		resp["current_period_end"] = periodEnd
	}
	return c.JSON(resp)
}

// RenewSubscription dönem sonu iptalini geri alır
func RenewSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	if err := adapter.Renew(claims.UserID); err != nil {
		switch {
		case errors.Is(err, billing.ErrNoActiveSubscription):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No active subscription found",
			})
		case errors.Is(err, billing.ErrNotCancelPending):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Subscription is not pending cancellation",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not renew subscription",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Subscription renewed successfully",
	})
}

// ChangePlan mevcut aboneliğin kademesini değiştirir (ör. king -> premium)
func ChangePlan(c *fiber.Ctx) error {
	input := new(ChangePlanInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	newTier := plan.Type(input.Tier)
	catalogPlan, err := findPlanByTier(input.Tier)
	if err != nil || catalogPlan.StripePriceID == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription plan not found",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	if err := adapter.ChangePlan(claims.UserID, newTier, catalogPlan.StripePriceID); err != nil {
		switch {
		case errors.Is(err, billing.ErrNoActiveSubscription):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No active subscription found",
			})
		case errors.Is(err, billing.ErrSamePlan):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Already on the requested plan",
			})
		case errors.Is(err, billing.ErrUnknownTier):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown plan tier",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not change plan",
		})
	}

	if email.GlobalEmailService != nil {
		if user, err := accounts.GetByID(claims.UserID); err == nil {
			err := email.GlobalEmailService.SendSubscriptionStartedEmail(
				user.Email,
				user.Username,
				catalogPlan.Name,
				catalogPlan.PixelGrant,
				true,
			)
			if err != nil {
				log.Printf("Could not send plan change email: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "Plan changed successfully",
	})
}

// GetMySubscription oturum sahibinin plan durumunu döner
func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	user, err := accounts.GetByID(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"plan":                 user.Plan,
		"pixels":               user.Pixels,
		"cancel_at_period_end": user.CancelAtPeriodEnd,
	})
}

// HandleSubscriptionSuccess Stripe checkout başarı dönüşü
func HandleSubscriptionSuccess(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Payment successful. Your plan will be activated shortly.",
	})
}

// HandleSubscriptionCancel ödeme akışından vazgeçildi
func HandleSubscriptionCancel(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Payment cancelled",
	})
}

// HandleStripeWebhook imzası doğrulanan Stripe eventlerini işler.
// Tanınmayan event tipleri loglanıp 200 ile kabul edilir.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		var sessData struct {
			ID                string            `json:"id"`
			ClientReferenceID string            `json:"client_reference_id"`
			Customer          string            `json:"customer"`
			Subscription      string            `json:"subscription"`
			Metadata          map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &sessData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		userID, err := strconv.ParseUint(sessData.ClientReferenceID, 10, 32)
		if err != nil {
			log.Printf("checkout.session.completed without valid client reference: %q", sessData.ClientReferenceID)
			return c.SendStatus(fiber.StatusOK)
		}

		tier := plan.Type(sessData.Metadata["tier"])
		if err := adapter.HandleCheckoutCompleted(uint(userID), tier, sessData.Customer, sessData.Subscription); err != nil {
			log.Printf("Could not process checkout completion: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not process checkout completion",
			})
		}

		if email.GlobalEmailService != nil {
			if user, err := accounts.GetByID(uint(userID)); err == nil {
				grant := plan.PixelGrants[tier]
				err := email.GlobalEmailService.SendSubscriptionStartedEmail(
					user.Email, user.Username, string(tier), grant, false,
				)
				if err != nil {
					log.Printf("Could not send subscription email: %v", err)
				}
			}
		}

	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		log.Printf("Processing subscription deletion: %s", subData.ID)

		if err := adapter.HandleSubscriptionDeleted(subData.ID); err != nil {
			log.Printf("Could not process subscription deletion: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not process subscription deletion",
			})
		}

	default:
		// İleriye dönük uyumluluk: bilinmeyen eventler sessizce kabul edilir
		log.Printf("Ignoring unhandled event type: %s", event.Type)
	}

	return c.SendStatus(fiber.StatusOK)
}
