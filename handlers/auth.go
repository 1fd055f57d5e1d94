package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neoflix/neoflix-api/internal/apperrors"
	"github.com/neoflix/neoflix-api/internal/auth"
	"github.com/neoflix/neoflix-api/pkg/logger"
	"github.com/neoflix/neoflix-api/pkg/metrics"
)

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is the payload for credential login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	authSvc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{authSvc: svc}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/register", h.RegisterUser)
	a.POST("/login", h.Login)
}

// RegisterUser creates a new account and returns it with a signed token
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			metrics.AuthAttempts.WithLabelValues("register", "conflict").Inc()
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": verr.Message, "details": verr.Details})
			return
		}
		metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
		logger.Errorf("register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	c.JSON(http.StatusOK, user)
}

// Login verifies credentials and returns the account with a signed token.
// Unknown email and wrong password produce the same 401 body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "error").Inc()
		logger.Errorf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}
	if user == nil {
		metrics.AuthAttempts.WithLabelValues("login", "unauthorized").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	c.JSON(http.StatusOK, user)
}
