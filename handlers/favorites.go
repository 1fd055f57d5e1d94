package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/neoflix/neoflix-api/internal/apperrors"
	"github.com/neoflix/neoflix-api/internal/favorites"
	"github.com/neoflix/neoflix-api/pkg/logger"
	"github.com/neoflix/neoflix-api/pkg/metrics"
	"github.com/neoflix/neoflix-api/pkg/middleware"
)

// FavoriteHandler holds dependencies
type FavoriteHandler struct {
	favSvc *favorites.Service
}

func NewFavoriteHandler(svc *favorites.Service) *FavoriteHandler {
	return &FavoriteHandler{favSvc: svc}
}

// Register routes under /account/favorites. Callers must mount this group
// behind middleware.Auth.
func (h *FavoriteHandler) Register(rg *gin.RouterGroup) {
	f := rg.Group("/account/favorites")
	f.GET("", h.List)
	f.POST("/:id", h.Add)
	f.DELETE("/:id", h.Remove)
}

// List returns the authenticated user's favorite movies
func (h *FavoriteHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	sort := c.DefaultQuery("sort", favorites.DefaultSort)
	order := c.DefaultQuery("order", favorites.DefaultOrder)
	limit := intQuery(c, "limit", favorites.DefaultLimit)
	skip := intQuery(c, "skip", 0)

	movies, err := h.favSvc.All(c.Request.Context(), user.UserID, sort, order, limit, skip)
	if err != nil {
		metrics.FavoriteOps.WithLabelValues("list", "error").Inc()
		logger.Errorf("favorites list failed for user %s: %v", user.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load favorites"})
		return
	}

	metrics.FavoriteOps.WithLabelValues("list", "success").Inc()
	c.JSON(http.StatusOK, movies)
}

// Add marks the movie as a favorite of the authenticated user
func (h *FavoriteHandler) Add(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	movie, err := h.favSvc.Add(c.Request.Context(), user.UserID, c.Param("id"))
	if err != nil {
		h.writeError(c, "add", user.UserID, err)
		return
	}

	metrics.FavoriteOps.WithLabelValues("add", "success").Inc()
	c.JSON(http.StatusOK, movie)
}

// Remove deletes the favorite relationship for the authenticated user
func (h *FavoriteHandler) Remove(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	movie, err := h.favSvc.Remove(c.Request.Context(), user.UserID, c.Param("id"))
	if err != nil {
		h.writeError(c, "remove", user.UserID, err)
		return
	}

	metrics.FavoriteOps.WithLabelValues("remove", "success").Inc()
	c.JSON(http.StatusOK, movie)
}

func (h *FavoriteHandler) writeError(c *gin.Context, op, userID string, err error) {
	var nfe *apperrors.NotFoundError
	if errors.As(err, &nfe) {
		metrics.FavoriteOps.WithLabelValues(op, "not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"message": nfe.Message})
		return
	}
	metrics.FavoriteOps.WithLabelValues(op, "error").Inc()
	logger.Errorf("favorites %s failed for user %s: %v", op, userID, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "favorite operation failed"})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
