package routes

import (
	"clinic-appointment-server/internal/config"
	"clinic-appointment-server/internal/handlers"
	"clinic-appointment-server/internal/mailer"
	"clinic-appointment-server/internal/middleware"
	"clinic-appointment-server/internal/models"
	"clinic-appointment-server/internal/payments"
	"clinic-appointment-server/internal/verification"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Deps holds the shared collaborators the handlers are wired with.
type Deps struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Codes    *verification.Store
	Mailer   mailer.Mailer
	Payments payments.LinkCreator
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Deps) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Cfg)
	appointmentHandler := handlers.NewAppointmentHandler(deps.DB, deps.Cfg, deps.Codes, deps.Mailer)
	verificationHandler := handlers.NewVerificationHandler(deps.DB, deps.Cfg, deps.Codes, deps.Mailer, deps.Payments)
	paymentHandler := handlers.NewPaymentHandler(deps.DB, deps.Cfg, deps.Payments, deps.Mailer)
	adminHandler := handlers.NewAdminHandler(deps.DB)

	// Code-sending endpoints share one per-IP limiter so a client cannot
	// flood a mailbox.
	codeLimiter := middleware.NewRateLimiter(
		rate.Limit(float64(deps.Cfg.VerificationRatePerMinute)/60.0),
		deps.Cfg.VerificationRatePerMinute,
	)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		appointmentRoutes := public.Group("/appointments")
		{
			appointmentRoutes.POST("", codeLimiter.Limit(), appointmentHandler.SubmitAppointment)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
		}

		public.GET("/procedures", appointmentHandler.ListProcedures)

		emailRoutes := public.Group("/email")
		{
			emailRoutes.POST("/send-verification-code", codeLimiter.Limit(), verificationHandler.SendVerificationCode)
			emailRoutes.POST("/resend-verification-code", codeLimiter.Limit(), verificationHandler.ResendVerificationCode)
			emailRoutes.POST("/verify-email-code", verificationHandler.VerifyEmailCode)
		}

		paymentRoutes := public.Group("/payments")
		{
			paymentRoutes.POST("/links", paymentHandler.CreatePaymentLink)
			// Gateway webhook: raw body, always acknowledged with 200.
			paymentRoutes.POST("/webhook", paymentHandler.Webhook)
		}

		public.POST("/admin/login", authHandler.Login)
	}

	// Staff routes (JWT required)
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(deps.Cfg))
	{
		admin.POST("/logout", authHandler.Logout)
		admin.POST("/refresh-token", authHandler.RefreshToken)
		admin.POST("/verify-password", authHandler.VerifyPassword)

		// Only admins can create staff accounts
		admin.POST("/register", middleware.RoleAuthMiddleware(models.RoleAdmin), authHandler.Register)

		admin.GET("/dashboard-insights", adminHandler.DashboardInsights)

		appointmentRoutes := admin.Group("/appointments")
		{
			appointmentRoutes.GET("", adminHandler.ListAppointments)
			appointmentRoutes.GET("/:id", adminHandler.GetAppointment)
			appointmentRoutes.DELETE("/:id", adminHandler.DeleteAppointment)
			appointmentRoutes.PATCH("/:id/status", adminHandler.UpdateAppointmentStatus)
		}

		archiveRoutes := admin.Group("/archived-appointments")
		{
			archiveRoutes.GET("", adminHandler.ListArchivedAppointments)
			archiveRoutes.GET("/:id", adminHandler.GetArchivedAppointment)

			// The archive is read-only history
			archiveRoutes.POST("", adminHandler.ArchiveReadOnly)
			archiveRoutes.PUT("/:id", adminHandler.ArchiveReadOnly)
			archiveRoutes.DELETE("/:id", adminHandler.ArchiveReadOnly)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
