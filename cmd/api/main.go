package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"pixelwall_backend/internal/controller"
	"pixelwall_backend/internal/middleware"
	"pixelwall_backend/internal/model"
	"pixelwall_backend/internal/store"
	"pixelwall_backend/pkg/billing"
	"pixelwall_backend/pkg/config"
	"pixelwall_backend/pkg/credits"
	"pixelwall_backend/pkg/cron"
	"pixelwall_backend/pkg/database"
	"pixelwall_backend/pkg/email"
	"pixelwall_backend/pkg/promo"
	"pixelwall_backend/pkg/seed"
	"pixelwall_backend/pkg/utils/jwt"
	"pixelwall_backend/pkg/utils/storage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Public routes önce kaydedilir; auth middleware'li gruplar sonra gelir

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public wallpaper routes
	api.Get("/wallpapers", controller.ListWallpapers)
	api.Get("/wallpapers/:slug", controller.GetWallpaperBySlug)

	// Public subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", controller.ListPlans)
	subscriptions.Get("/payment-success", controller.HandleSubscriptionSuccess)  // Ödeme başarılı
	subscriptions.Get("/payment-cancelled", controller.HandleSubscriptionCancel) // Ödemeden vazgeçildi

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Settings routes
	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Put("/profile", controller.UpdateProfile)
	settings.Put("/password", controller.UpdatePassword)

	// Protected wallpaper routes
	wallpapers := api.Group("/wallpapers", middleware.AuthMiddleware())
	wallpapers.Post("/:id/download/:res", controller.DownloadWallpaper)
	wallpapers.Post("/", middleware.AdminOnly(), controller.UploadWallpaper)
	wallpapers.Delete("/:id", middleware.AdminOnly(), controller.DeleteWallpaper)

	// Protected subscription routes
	subProtected := subscriptions.Use(middleware.AuthMiddleware())
	subProtected.Post("/create-checkout-session", controller.CreateCheckoutSession)
	subProtected.Post("/cancel-subscription", controller.CancelSubscription) // Dönem sonunda iptal
	subProtected.Post("/renew-subscription", controller.RenewSubscription)   // İptali geri al
	subProtected.Post("/change-plan", controller.ChangePlan)
	subProtected.Get("/my", controller.GetMySubscription)

	// Promo routes
	promoRoutes := api.Group("/promo", middleware.AuthMiddleware())
	promoRoutes.Post("/redeem", controller.RedeemPromoCode)
	promoRoutes.Post("/", middleware.AdminOnly(), controller.GeneratePromoCode)
	promoRoutes.Get("/", middleware.AdminOnly(), controller.ListPromoCodes)
	promoRoutes.Delete("/:id", middleware.AdminOnly(), controller.DeletePromoCode)

	// Admin credit grants
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminOnly())
	admin.Post("/users/:id/credits", controller.GrantPixels)
}

func main() {
	cfg := config.Load()

	jwt.InitSecret(cfg.JWT.Secret)

	if cfg.Email.ResendAPIKey != "" {
		if err := email.InitEmailService(cfg.Email.ResendAPIKey); err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, email notifications disabled")
	}

	if err := storage.InitStorage(cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.AccessKey, cfg.Storage.SecretKey); err != nil {
		log.Fatal("Could not initialize storage:", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Plan{},
		&model.PromoCode{},
		&model.DownloadLimit{},
		&model.Wallpaper{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedPlans(database.GetDB(), cfg.Stripe.PremiumPriceID, cfg.Stripe.KingPriceID)

	accountStore := store.NewAccountStore(database.GetDB())
	promoStore := store.NewPromoStore(database.GetDB())
	downloadStore := store.NewDownloadStore(database.GetDB())

	ledger := credits.NewLedger(accountStore)
	provider := billing.NewStripeProvider(cfg.Stripe.SecretKey)
	adapter := billing.NewAdapter(accountStore, provider, ledger)
	issuer := promo.NewIssuer(promoStore, ledger)

	controller.InitAuthController(accountStore)
	controller.InitSubscriptionController(adapter, provider, cfg.Stripe.WebhookSecret, cfg.Server.BaseURL)
	controller.InitPromoController(issuer)
	controller.InitWallpaperController(downloadStore)
	controller.InitAdminController(ledger)

	cron.InitDownloadResetCron(downloadStore)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
