package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/whipsplash/concierge-backend/internal/config"
	"github.com/whipsplash/concierge-backend/internal/database"
	"github.com/whipsplash/concierge-backend/internal/handlers"
	"github.com/whipsplash/concierge-backend/internal/middleware"
	"github.com/whipsplash/concierge-backend/internal/services"
	"github.com/whipsplash/concierge-backend/pkg/agent"
	"github.com/whipsplash/concierge-backend/pkg/jwt"
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

	logger.Info("Starting WhipSplash Concierge Backend")
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

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	guestRepo := database.NewGuestRepository(db)
	roomRepo := database.NewRoomRepository(db)
	reservationRepo := database.NewReservationRepository(db)
	serviceRepo := database.NewServiceRepository(db)
	orderRepo := database.NewServiceOrderRepository(db)
	sessionRepo := database.NewSessionRepository(db)
	messageRepo := database.NewMessageRepository(db)

	// Initialize agent runtime
	var runtime agent.Runtime
	if cfg.Agent.Mode == "production" {
		logger.Infof("Initializing agent runtime in production mode (model %s)", cfg.Agent.Model)
		runtime = agent.NewOpenAIRuntime(agent.OpenAIConfig{
			APIURL:  cfg.Agent.APIURL,
			APIKey:  cfg.Agent.APIKey,
			Model:   cfg.Agent.Model,
			Timeout: cfg.Agent.Timeout,
		})
	} else {
		logger.Info("Agent runtime in development mode (no external API calls)")
		runtime = agent.NewDevRuntime()
	}

	// Initialize services
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	reservationService := services.NewReservationService(guestRepo, roomRepo, reservationRepo, logger)
	orderService := services.NewOrderService(serviceRepo, orderRepo, logger)
	chatService := services.NewChatService(runtime, messageRepo, reservationService, orderService, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(guestRepo, sessionRepo, jwtService, cfg.JWT, logger)
	reservationHandler := handlers.NewReservationHandler(reservationService, logger)
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	chatHandler := handlers.NewChatHandler(chatService, logger)
	sessionHandler := handlers.NewSessionHandler(sessionRepo, messageRepo, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoints
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/health", healthCheckHandler(db))

	// Public routes
	router.POST("/auth/token", authHandler.Token)
	router.GET("/services", orderHandler.ListServices)

	reservations := router.Group("/reservations")
	{
		reservations.GET("/:id", reservationHandler.ListForGuest)
		reservations.POST("", reservationHandler.Create)
		reservations.PATCH("/:id", reservationHandler.Update)
		reservations.DELETE("/:id", reservationHandler.Cancel)
		reservations.POST("/:id/orders", orderHandler.PlaceOrder)
		reservations.GET("/:id/orders", orderHandler.ListOrders)
		reservations.DELETE("/:id/orders", orderHandler.DeleteOrdersForReservation)
	}

	router.DELETE("/orders/:order_id", orderHandler.DeleteOrder)

	// Protected routes (require a guest session token)
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService, cfg.JWT.CookieName))
	{
		protected.POST("/chat", chatHandler.Chat)
		protected.GET("/chat/history", chatHandler.History)
		protected.DELETE("/chat/history", chatHandler.ClearHistory)
		protected.GET("/sessions", sessionHandler.List)
		protected.DELETE("/sessions/:session_id/messages", sessionHandler.DeleteMessages)
	}

	// Create HTTP server. WriteTimeout stays unset: chat responses are
	// long-lived streams.
	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
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

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		entry := logger.WithFields(logrus.Fields{
			"status":     status,
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
		})

		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
