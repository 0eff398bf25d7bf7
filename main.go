package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gussttaav/g-commerce-thymeleaf/api"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/product"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/purchase"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/user"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	db, err := openDB()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&user.User{}, &product.Product{}, &purchase.Purchase{}, &purchase.Item{}); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	// Seed the administrator account on first boot.
	userService := user.NewService(user.NewGormStorage(db), logger)
	if err := userService.EnsureAdmin(
		getEnv("ADMIN_NAME", "Administrator"),
		getEnv("ADMIN_EMAIL", "admin@gplanet.com"),
		getEnv("ADMIN_PASSWORD", "admin123"),
	); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	r := gin.Default()
	api.InitRoutes(r, db, logger, getEnv("JWT_SECRET", "change-me"))

	port := getEnv("PORT", "8080")
	logger.Info("starting server", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}

func openDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASS", "postgres"),
		getEnv("DB_NAME", "gcommerce"),
		getEnv("DB_PORT", "5432"),
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
