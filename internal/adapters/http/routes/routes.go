package routes

import (
	"time"

	"apcb-events/internal/adapters/http/handlers"
	"apcb-events/internal/adapters/http/middleware"
	"apcb-events/internal/adapters/persistence/repositories"
	"apcb-events/internal/config"
	"apcb-events/internal/core/services"
	"apcb-events/internal/pkg/cache"
	"apcb-events/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps carries the shared infrastructure handed to route setup
type Deps struct {
	DB    *gorm.DB
	Cache *cache.Cache
	Blobs storage.BlobStore
}

// Setup configures all routes for the application and returns the
// newsletter service so the scheduler can dispatch due campaigns.
func Setup(app *fiber.App, deps Deps, cfg *config.Config) *services.NewsletterService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(deps.DB)
	eventRepo := repositories.NewEventRepository(deps.DB)
	regRepo := repositories.NewRegistrationRepository(deps.DB)
	newsletterRepo := repositories.NewNewsletterRepository(deps.DB)
	campaignRepo := repositories.NewCampaignRepository(deps.DB)

	// Initialize services
	mailService := services.NewMailService(cfg.Mail.APIURL, cfg.Mail.APIKey, cfg.Mail.From)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, mailService)
	eventService := services.NewEventService(eventRepo, deps.Cache)
	regService := services.NewRegistrationService(regRepo, eventRepo, userRepo, deps.Blobs, mailService)
	newsletterService := services.NewNewsletterService(newsletterRepo, campaignRepo, mailService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	regHandler := handlers.NewRegistrationHandler(regService)
	adminRegHandler := handlers.NewAdminRegistrationHandler(regService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	v1 := app.Group("/api/v1")

	// ============================================================
	// Public routes
	// ============================================================
	events := v1.Group("/events", middleware.CacheControl(60*time.Second))
	events.Get("/", eventHandler.List)
	events.Get("/:id", eventHandler.Get)

	v1.Post("/newsletter/subscribe", newsletterHandler.Subscribe)

	// Auth routes (stricter rate limit)
	auth := v1.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// ============================================================
	// Authenticated routes
	// ============================================================
	authed := v1.Group("", middleware.AuthMiddleware(cfg))

	authed.Put("/users/me", userHandler.UpdateProfile)

	regs := authed.Group("/registrations")
	regs.Post("/", regHandler.Register)
	regs.Get("/my", regHandler.MyRegistrations)
	regs.Get("/:id", regHandler.Get)
	regs.Post("/:id/cancel", regHandler.Cancel)
	regs.Put("/:id/evidence", regHandler.UploadEvidence)

	// ============================================================
	// Admin routes
	// ============================================================
	admin := authed.Group("/admin", middleware.AdminData())

	// Event management (super admin + event manager)
	adminEvents := admin.Group("/events")
	adminEvents.Get("/:id/registrations", adminRegHandler.ListByEvent)
	adminEvents.Post("/", middleware.EventStaff(), eventHandler.Create)
	adminEvents.Put("/:id", middleware.EventStaff(), eventHandler.Update)
	adminEvents.Delete("/:id", middleware.EventStaff(), eventHandler.Delete)

	// Registration administration
	adminRegs := admin.Group("/registrations")
	adminRegs.Get("/", adminRegHandler.List)
	adminRegs.Post("/", middleware.EventStaff(), adminRegHandler.Create)
	adminRegs.Patch("/:id/payment-status", middleware.FinanceGated(), adminRegHandler.UpdatePaymentStatus)
	adminRegs.Delete("/:id", middleware.SuperAdminOnly(), adminRegHandler.Delete)

	// User management (super admin)
	adminUsers := admin.Group("/users")
	adminUsers.Get("/:id/registrations", adminRegHandler.ListForUser)
	adminUsers.Get("/", middleware.SuperAdminOnly(), userHandler.List)
	adminUsers.Get("/:id", middleware.SuperAdminOnly(), userHandler.Get)
	adminUsers.Post("/", middleware.SuperAdminOnly(), userHandler.Create)
	adminUsers.Patch("/:id/role", middleware.SuperAdminOnly(), userHandler.ChangeRole)

	// Newsletter & campaigns
	admin.Get("/newsletter/subscribers", newsletterHandler.ListSubscribers)
	adminCampaigns := admin.Group("/campaigns")
	adminCampaigns.Get("/", newsletterHandler.ListCampaigns)
	adminCampaigns.Get("/:id", newsletterHandler.GetCampaign)
	adminCampaigns.Post("/", newsletterHandler.CreateCampaign)
	adminCampaigns.Post("/:id/send", newsletterHandler.SendCampaign)

	return newsletterService
}
