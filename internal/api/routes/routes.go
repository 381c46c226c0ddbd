// Package routes handles the setup and configuration of API routes
package routes

import (
	"database/sql"
	_ "contestlet/docs" // Import swagger docs
	"contestlet/internal/api/handlers"
	"contestlet/internal/api/middleware"
	"contestlet/internal/auth"
	"contestlet/internal/config"
	"contestlet/internal/repository/postgres"
	"contestlet/internal/sms"
	"contestlet/internal/sweep"
	"contestlet/internal/timezone"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, db *sql.DB, sweepManager *sweep.Manager) *gin.Engine {
	r := gin.Default()

	// Apply compression middleware globally
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Apply rate limiting to all other routes
	r.Use(middleware.NewRateLimiter(cfg).Middleware())

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	otpRepo := postgres.NewOTPRepository(db)
	contestRepo := postgres.NewContestRepository(db)
	entryRepo := postgres.NewEntryRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	tzPrefRepo := postgres.NewTimezonePreferenceRepository(db)

	// Initialize services
	authService := auth.NewService(cfg, otpRepo, userRepo, refreshTokenRepo)
	smsSender := sms.NewSender(cfg.SMS)
	catalog := timezone.NewCatalog(cfg.Timezone.Default, cfg.Timezone.CacheTTL)
	prefs := timezone.NewPreferenceStore(tzPrefRepo, catalog, cfg.Timezone.SnapshotPath)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService, userRepo, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, userRepo, smsSender, cfg)
	contestHandler := handlers.NewContestHandler(contestRepo)
	entryHandler := handlers.NewEntryHandler(contestRepo, entryRepo)
	winnerHandler := handlers.NewWinnerHandler(contestRepo, entryRepo, notificationRepo, smsSender)
	timezoneHandler := handlers.NewTimezoneHandler(catalog, prefs)
	sweepHandler := handlers.NewSweepHandler(sweepManager.Sweeper())

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Health check (no authentication required)
		v1.GET("/health", healthHandler.Health)

		// Auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/request-otp", authHandler.RequestOTP)
			authRoutes.POST("/verify-otp", authHandler.VerifyOTP)
			authRoutes.POST("/refresh", authHandler.Refresh)
		}

		// Public contest routes; entering requires authentication
		contests := v1.Group("/contests")
		{
			contests.GET("", contestHandler.ListContests)
			contests.GET("/:id", contestHandler.GetContest)
			contests.POST("/:id/enter", authMiddleware.AuthRequired(), entryHandler.EnterContest)
		}

		// Sponsor routes: sponsors review contests and their entrants
		sponsor := v1.Group("/sponsor")
		sponsor.Use(authMiddleware.AuthRequired(), authMiddleware.SponsorOrAdminRequired())
		{
			sponsor.GET("/contests", contestHandler.ListContests)
			sponsor.GET("/contests/:id/entries", entryHandler.ListEntries)
		}

		// Operator token exchange (no authentication required)
		v1.POST("/admin/auth", authHandler.AdminAuth)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
		{
			admin.GET("/contests", contestHandler.ListContests)
			admin.POST("/contests", contestHandler.CreateContest)
			admin.PUT("/contests/:id", contestHandler.UpdateContest)
			admin.DELETE("/contests/:id", contestHandler.DeleteContest)
			admin.GET("/contests/:id/entries", entryHandler.ListEntries)
			admin.POST("/contests/:id/select-winner", winnerHandler.SelectWinner)
			admin.POST("/contests/:id/notify-winner", winnerHandler.NotifyWinner)
			admin.GET("/notifications", winnerHandler.ListNotifications)

			admin.GET("/profile/timezones", timezoneHandler.ListTimezones)
			admin.GET("/profile/timezone", timezoneHandler.GetTimezonePreference)
			admin.POST("/profile/timezone", timezoneHandler.SetTimezonePreference)

			admin.POST("/sweeps/run", sweepHandler.RunSweep)
		}
	}

	return r
}
