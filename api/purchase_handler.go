package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/purchase"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/user"
)

// purchaseHandler holds the purchase service and implements HTTP handlers
// for purchase operations.
type purchaseHandler struct {
	service *purchase.Service
	logger  *zap.Logger
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(service *purchase.Service, logger *zap.Logger) *purchaseHandler {
	return &purchaseHandler{service: service, logger: logger}
}

// handleCreatePurchase handles the POST /purchases endpoint.
func (h *purchaseHandler) handleCreatePurchase(ctx *gin.Context) {
	var req purchase.Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind purchase request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	created, err := h.service.Create(callerEmail(ctx), req)
	if err != nil {
		var pnf *purchase.ProductNotFoundError
		switch {
		case errors.Is(err, user.ErrNotFound):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		case errors.As(err, &pnf):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": pnf.Error(), "productId": pnf.ProductID})
		default:
			h.logger.Error("failed to create purchase", zap.String("email", callerEmail(ctx)), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create purchase"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// handleListPurchases handles the GET /purchases endpoint. Visibility is
// role-scoped inside the service.
func (h *purchaseHandler) handleListPurchases(ctx *gin.Context) {
	req := pageRequestFromQuery(ctx, "date", pagination.DESC)

	page, err := h.service.List(callerEmail(ctx), req)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("failed to list purchases", zap.String("email", callerEmail(ctx)), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list purchases"})
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// pageRequestFromQuery parses the shared pagination query parameters.
func pageRequestFromQuery(ctx *gin.Context, defaultSort string, defaultDir pagination.Direction) pagination.PageRequest {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "0"))
	if err != nil {
		page = 0
	}
	size, err := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	if err != nil {
		size = 10
	}
	sort := ctx.DefaultQuery("sort", defaultSort)
	dir := pagination.ParseDirection(ctx.DefaultQuery("direction", string(defaultDir)))
	return pagination.NewPageRequest(page, size, sort, dir)
}
