package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/product"
)

// productHandler holds the product service and implements HTTP handlers
// for catalog operations.
type productHandler struct {
	service *product.Service
	logger  *zap.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *product.Service, logger *zap.Logger) *productHandler {
	return &productHandler{service: service, logger: logger}
}

// handleListProducts handles the GET /products endpoint. Non-admin callers
// only ever see active products regardless of the status filter.
func (h *productHandler) handleListProducts(ctx *gin.Context) {
	status := product.ParseStatus(ctx.DefaultQuery("status", string(product.StatusActive)))
	if ctx.GetString("user_role") != "ADMIN" {
		status = product.StatusActive
	}
	search := ctx.Query("search")
	req := pageRequestFromQuery(ctx, "name", pagination.ASC)

	page, err := h.service.List(status, search, req)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// handleCreateProduct handles the POST /products endpoint.
func (h *productHandler) handleCreateProduct(ctx *gin.Context) {
	var req product.Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	created, err := h.service.Create(req)
	if err != nil {
		if errors.Is(err, product.ErrInvalidPrice) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to create product", zap.String("name", req.Name), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// handleUpdateProduct handles the PUT /products/:id endpoint.
func (h *productHandler) handleUpdateProduct(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req product.Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	updated, err := h.service.Update(id, req)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, product.ErrInvalidPrice):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to update product", zap.Int64("product_id", id), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// handleToggleProductStatus handles the POST /products/:id/status endpoint.
func (h *productHandler) handleToggleProductStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	updated, err := h.service.ToggleStatus(id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("failed to toggle product status", zap.Int64("product_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle product status"})
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
