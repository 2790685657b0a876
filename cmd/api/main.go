package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/smartq/backend/internal/config"
	"github.com/smartq/backend/internal/handlers"
	"github.com/smartq/backend/internal/middleware"
	"github.com/smartq/backend/internal/models"
	"github.com/smartq/backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	smsService := services.NewSMSService(cfg)
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(db, redisClient, cfg)
	otpService := services.NewOTPService(db, cfg)
	verificationService := services.NewVerificationService(db, cfg, otpService, smsService, emailService)
	userService := services.NewUserService(db, cfg)
	salonService := services.NewSalonService(db)
	queueService := services.NewQueueService(db, smsService)
	reviewService := services.NewReviewService(db)
	qrService := services.NewQRService(cfg)

	// Purge expired verification codes periodically. Verify already rejects
	// expired rows, this only keeps the table small.
	go func() {
		for {
			time.Sleep(10 * time.Minute)
			purged, err := otpService.PurgeExpired()
			if err != nil {
				log.Printf("OTP purge error: %v", err)
			} else if purged > 0 {
				log.Printf("OTP purge: removed %d expired codes", purged)
			}
		}
	}()

	// Clean up expired refresh and password reset tokens hourly
	go func() {
		for {
			time.Sleep(time.Hour)
			if err := authService.CleanupExpiredTokens(); err != nil {
				log.Printf("Token cleanup error: %v", err)
			}
		}
	}()

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, verificationService, emailService, cfg.FrontendURL)
	userHandler := handlers.NewUserHandler(userService, queueService)
	salonHandler := handlers.NewSalonHandler(salonService, queueService, qrService)
	queueHandler := handlers.NewQueueHandler(queueService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	publicHandler := handlers.NewPublicHandler(salonService, reviewService)

	// Health check outside API group (no /api/v1 prefix)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		// Health check also available under /api/v1/health for compatibility
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Public routes
		public := api.Group("/public")
		{
			public.GET("/salons", publicHandler.SearchSalons)
			public.GET("/salons/:salonId", publicHandler.GetSalon)
			public.GET("/salons/:salonId/services", publicHandler.GetSalonServices)
			public.GET("/salons/:salonId/reviews", publicHandler.GetSalonReviews)
			public.GET("/offers", publicHandler.GetCurrentOffers)
		}

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
			// Email and phone verification (requires auth)
			auth.POST("/verify/request", middleware.Auth(authService),
				middleware.ResendCooldown(redisClient, cfg.OTPResendCooldown), authHandler.RequestVerification)
			auth.POST("/verify/resend", middleware.Auth(authService),
				middleware.ResendCooldown(redisClient, cfg.OTPResendCooldown), authHandler.RequestVerification)
			auth.POST("/verify/submit", middleware.Auth(authService), authHandler.SubmitVerification)
			// Password reset
			auth.POST("/password/forgot", authHandler.ForgotPassword)
			auth.POST("/password/reset", authHandler.ResetPassword)
		}

		// User routes
		user := api.Group("/user")
		user.Use(middleware.Auth(authService))
		{
			user.GET("/profile", userHandler.GetProfile)
			user.PUT("/profile", userHandler.UpdateProfile)
			user.GET("/history", userHandler.GetHistory)
			user.GET("/favorites", userHandler.GetFavorites)
			user.POST("/favorites/:salonId", userHandler.AddFavorite)
			user.DELETE("/favorites/:salonId", userHandler.RemoveFavorite)
			// Queue participation
			user.POST("/queue", queueHandler.JoinQueue)
			user.GET("/queue", queueHandler.GetActiveEntry)
			user.DELETE("/queue/:entryId", queueHandler.LeaveQueue)
			// Reviews
			user.POST("/salons/:salonId/reviews", reviewHandler.SubmitReview)
			user.DELETE("/reviews/:reviewId", reviewHandler.DeleteReview)
		}

		// Salon owner routes
		owner := api.Group("/owner")
		owner.Use(middleware.Auth(authService))
		owner.Use(middleware.SalonOwnerOnly())
		{
			owner.POST("/salons", salonHandler.CreateSalon)
			owner.GET("/salons", salonHandler.GetOwnedSalons)
			owner.PUT("/salons/:salonId", salonHandler.UpdateSalon)
			owner.DELETE("/salons/:salonId", salonHandler.DeleteSalon)

			// Catalog management
			owner.POST("/salons/:salonId/services", salonHandler.CreateService)
			owner.PUT("/services/:serviceId", salonHandler.UpdateService)
			owner.DELETE("/services/:serviceId", salonHandler.DeleteService)

			// Photos
			owner.POST("/salons/:salonId/photos", salonHandler.AddPhoto)
			owner.DELETE("/photos/:photoId", salonHandler.DeletePhoto)

			// Offers
			owner.POST("/salons/:salonId/offers", salonHandler.CreateOffer)
			owner.DELETE("/offers/:offerId", salonHandler.DeactivateOffer)

			// Live queue management
			owner.GET("/salons/:salonId/queue", queueHandler.GetSalonQueue)
			owner.PUT("/queue/:entryId/status", queueHandler.UpdateStatus)

			// Dashboard and printable QR poster
			owner.GET("/salons/:salonId/dashboard", salonHandler.GetDashboardStats)
			owner.GET("/salons/:salonId/queue-poster.pdf", salonHandler.DownloadQueuePoster)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
