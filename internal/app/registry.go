package app

import (
	"database/sql"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fzn99-cell/RHConnect/internal/audit"
	"github.com/fzn99-cell/RHConnect/internal/auth"
	"github.com/fzn99-cell/RHConnect/internal/mailer"
	"github.com/fzn99-cell/RHConnect/internal/messaging/kafka"
	"github.com/fzn99-cell/RHConnect/internal/middleware"
	"github.com/fzn99-cell/RHConnect/internal/notification"
	"github.com/fzn99-cell/RHConnect/internal/rbac"
	"github.com/fzn99-cell/RHConnect/internal/request"
	"github.com/fzn99-cell/RHConnect/internal/upload"
	"github.com/fzn99-cell/RHConnect/internal/user"
)

func smtpSenderFromEnv(logger *zap.Logger) mailer.Sender {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}, logger)
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID())

	middleware.UseIdempotencyStore(rdb)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	store, err := upload.NewLocalStore(uploadDir, logger)
	if err != nil {
		return err
	}
	router.Static("/uploads", uploadDir)

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Shared infrastructure ---
	sender := smtpSenderFromEnv(logger)
	hub := notification.NewHub(logger)
	go hub.Run()

	// --- Services ---
	authService := auth.NewService(authRepo, sender, logger)
	userService := user.NewService(userRepo, notificationRepo, sender, logger)
	notificationService := notification.NewService(notificationRepo, logger)
	requestService := request.NewService(
		db,
		requestRepo,
		userRepo,
		auditRepo,
		notificationRepo,
		outboxRepo,
		store,
		hub,
		rdb,
		logger,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	userHandler := user.NewHandlerWithRedis(userService, rdb, logger)
	notificationHandler := notification.NewHandler(notificationService, hub, logger)
	requestHandler := request.NewHandlerWithRedis(requestService, rdb, logger)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService, logger)
		notification.RegisterRoutes(api, notificationHandler, rbacService, logger)
		request.RegisterRoutes(api, requestHandler, rbacService, logger)
	}

	return nil
}
