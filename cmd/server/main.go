package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fixitstudio/consultation-backend/internal/config"
	"github.com/fixitstudio/consultation-backend/internal/database"
	"github.com/fixitstudio/consultation-backend/internal/handlers"
	"github.com/fixitstudio/consultation-backend/internal/services"
	"github.com/fixitstudio/consultation-backend/pkg/notify"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting FixIt Studio Consultation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Missing configuration degrades the dependent endpoints; it must not
	// prevent startup
	for _, warning := range cfg.Warnings() {
		logger.Error(warning)
	}

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection when configured
	var db database.DB
	var store handlers.ConsultationStore
	if cfg.Database.URL != "" {
		logger.Info("Connecting to database...")
		db, err = database.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		logger.Info("Database connection established")

		store = database.NewConsultationRepository(db, logger)
	}

	// Initialize services
	logger.Info("Initializing services...")
	razorpayService := services.NewRazorpayService(&cfg.Razorpay, logger)

	emailGateway := notify.NewResendGateway(notify.ResendConfig{
		APIKey:      cfg.Email.APIKey,
		FromAddress: cfg.Email.FromAddress,
		TeamAddress: cfg.Email.TeamAddress,
		APIURL:      cfg.Email.APIURL,
	})
	messageGateway := notify.NewTwilioGateway(notify.TwilioConfig{
		AccountSID: cfg.WhatsApp.AccountSID,
		AuthToken:  cfg.WhatsApp.AuthToken,
		FromNumber: cfg.WhatsApp.FromNumber,
		TeamNumber: cfg.WhatsApp.TeamNumber,
		APIURL:     cfg.WhatsApp.APIURL,
	})
	notificationService := services.NewNotificationService(emailGateway, messageGateway, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(razorpayService, logger)
	consultationHandler := handlers.NewConsultationHandler(store, razorpayService, notificationService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.Use(corsMiddleware(cfg.CORS))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Payment routes
	payment := router.Group("/payment")
	{
		payment.POST("/create-order", paymentHandler.CreateOrder)
		payment.POST("/verify", paymentHandler.VerifyPayment)
	}

	// Consultation submission
	router.POST("/consultation", consultationHandler.Submit)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// corsMiddleware answers cross-origin requests including OPTIONS preflights.
// Preflights respond 200, not the library default 204.
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:              cfg.AllowedOrigins,
		AllowMethods:              cfg.AllowedMethods,
		AllowHeaders:              cfg.AllowedHeaders,
		ExposeHeaders:             []string{"Content-Length"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	})
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "not_configured"
		if db != nil {
			dbStatus = "healthy"
			if err := db.Ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "unhealthy",
					"database": "unhealthy",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
