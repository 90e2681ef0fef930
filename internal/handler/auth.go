package handler

import (
	"errors"
	"net/http"

	"github.com/bloghub/backend/internal/model"
	"github.com/bloghub/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Description Creates the account only; no tokens are issued.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Username, password and confirmation"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /register/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if _, err := h.svc.Register(c.Request.Context(), req.Username, req.Password, req.PasswordConfirm); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// Login godoc
// @Summary Login
// @Description Issues an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.LoginResponse
// @Failure 404 {object} map[string]string
// @Router /login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pair, user, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User: model.UserInfo{
			ID:       user.ID,
			Username: user.Username,
		},
	})
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchanges a live refresh token for a new access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.RefreshResponse
// @Failure 400 {object} map[string]string
// @Router /token/refresh/ [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	access, err := h.svc.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.RefreshResponse{Access: access})
}

// Logout godoc
// @Summary Logout
// @Description Revokes the refresh token; access tokens expire naturally.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.LogoutRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req model.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.Refresh); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Login failure is deliberately 404 with one opaque message for both
// unknown-user and wrong-password, carried over from the original API.
func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing credentials"})
	case errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password confirmation does not match"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid username or password"})
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
