package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/user"
)

// userHandler holds the user service and implements HTTP handlers for
// account operations.
type userHandler struct {
	service   *user.Service
	logger    *zap.Logger
	jwtSecret string
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service *user.Service, logger *zap.Logger, jwtSecret string) *userHandler {
	return &userHandler{service: service, logger: logger, jwtSecret: jwtSecret}
}

// handleRegister handles the POST /users/register endpoint.
func (h *userHandler) handleRegister(ctx *gin.Context) {
	var req user.RegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	created, err := h.service.Register(req)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		h.logger.Error("failed to register user", zap.String("email", req.Email), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// handleLogin handles the POST /users/login endpoint and issues a signed
// bearer token on success.
func (h *userHandler) handleLogin(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	u, err := h.service.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidPassword) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.String("email", req.Email), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  string(u.Role),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": signed})
}

// handleProfile handles the GET /users/profile endpoint.
func (h *userHandler) handleProfile(ctx *gin.Context) {
	profile, err := h.service.Profile(callerEmail(ctx))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// handleUpdateProfile handles the PUT /users/profile endpoint.
func (h *userHandler) handleUpdateProfile(ctx *gin.Context) {
	var req user.ProfileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	updated, err := h.service.UpdateProfile(callerEmail(ctx), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		case errors.Is(err, user.ErrEmailTaken):
			ctx.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			h.logger.Error("failed to update profile", zap.String("email", callerEmail(ctx)), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// handleChangePassword handles the POST /users/password endpoint.
func (h *userHandler) handleChangePassword(ctx *gin.Context) {
	var req user.PasswordChangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	err := h.service.ChangePassword(callerEmail(ctx), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		case errors.Is(err, user.ErrInvalidPassword), errors.Is(err, user.ErrPasswordMismatch):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to change password", zap.String("email", callerEmail(ctx)), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change password"})
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// handleListUsers handles the GET /users endpoint (admin only).
func (h *userHandler) handleListUsers(ctx *gin.Context) {
	req := pageRequestFromQuery(ctx, "date", pagination.DESC)

	page, err := h.service.List(req)
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// handleToggleRole handles the POST /users/:id/role endpoint (admin only).
func (h *userHandler) handleToggleRole(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	updated, err := h.service.ToggleRole(id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("failed to change role", zap.Int64("user_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change role"})
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
