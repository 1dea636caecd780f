package app

import (
	"context"
	"errors"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fzn99-cell/RHConnect/internal/shared/connection"
	"github.com/fzn99-cell/RHConnect/internal/user"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	if err := seedAdmin(gormDB); err != nil {
		return err
	}

	return registerModules(router, db, gormDB, redisClient)
}

// seedAdmin makes sure the single admin account exists before the API
// takes traffic. A no-op when ADMIN_EMAIL is unset or the account is
// already there.
func seedAdmin(gormDB *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	ctx := context.Background()
	userRepo := user.NewRepository(gormDB)

	_, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	fullName := "Administrateur"
	admin := &user.User{
		Email:      email,
		Password:   string(hash),
		Role:       user.RoleAdmin,
		Department: user.DepartmentNone,
		Status:     user.StatusActive,
		FullName:   &fullName,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	zap.L().Named("app").Info("admin account seeded", zap.String("email", email))
	return nil
}
