package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/product"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/purchase"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/user"
)

// Dependencies bundles the storage backends and cross-cutting pieces the
// API is wired with. Tests inject in-memory storages here.
type Dependencies struct {
	Users     user.Storage
	Products  product.Storage
	Purchases purchase.Storage
	Logger    *zap.Logger
	JWTSecret string
}

// InitRoutes registers all endpoints on the given Gin engine backed by the
// relational storages.
func InitRoutes(e *gin.Engine, db *gorm.DB, logger *zap.Logger, jwtSecret string) {
	InitRoutesWithDeps(e, Dependencies{
		Users:     user.NewGormStorage(db),
		Products:  product.NewGormStorage(db),
		Purchases: purchase.NewGormStorage(db),
		Logger:    logger,
		JWTSecret: jwtSecret,
	})
}

// InitRoutesWithDeps registers all endpoints using the given dependencies.
// It initializes the services and handlers, then binds each HTTP method
// and path to the appropriate handler function.
func InitRoutesWithDeps(e *gin.Engine, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	userService := user.NewService(deps.Users, logger)
	productService := product.NewService(deps.Products, logger)
	purchaseService := purchase.NewService(deps.Purchases, deps.Users, deps.Products, logger)

	userHandler := NewUserHandler(userService, logger, deps.JWTSecret)
	productHandler := NewProductHandler(productService, logger)
	purchaseHandler := NewPurchaseHandler(purchaseService, logger)

	e.Use(RequestID())

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	e.POST("/users/register", userHandler.handleRegister)
	e.POST("/users/login", userHandler.handleLogin)

	authed := e.Group("", AuthRequired(deps.JWTSecret))
	{
		authed.GET("/users/profile", userHandler.handleProfile)
		authed.PUT("/users/profile", userHandler.handleUpdateProfile)
		authed.POST("/users/password", userHandler.handleChangePassword)

		authed.GET("/products", productHandler.handleListProducts)

		authed.POST("/purchases", purchaseHandler.handleCreatePurchase)
		authed.GET("/purchases", purchaseHandler.handleListPurchases)
	}

	admin := e.Group("", AuthRequired(deps.JWTSecret), AdminRequired())
	{
		admin.GET("/users", userHandler.handleListUsers)
		admin.POST("/users/:id/role", userHandler.handleToggleRole)

		admin.POST("/products", productHandler.handleCreateProduct)
		admin.PUT("/products/:id", productHandler.handleUpdateProduct)
		admin.POST("/products/:id/status", productHandler.handleToggleProductStatus)
	}
}
