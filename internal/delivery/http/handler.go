package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openfoods/openfoods/internal/domain"
	"github.com/openfoods/openfoods/internal/logger"
)

// Handler serves the OpenFoods wire protocol from a FoodRepository
type Handler struct {
	repo domain.FoodRepository
	log  *zap.SugaredLogger
}

// likeResponse is the body returned by like/unlike
type likeResponse struct {
	Success bool `json:"success"`
}

// NewHandler creates a new HTTP handler
func NewHandler(repo domain.FoodRepository, log *zap.SugaredLogger) *Handler {
	return &Handler{repo: repo, log: logger.OrNop(log)}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "openfoods-server",
		"version": "1.0.0",
	})
}

// ListFoods handles GET /food
func (h *Handler) ListFoods(c *gin.Context) {
	foods, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.log.Errorw("list foods failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list foods"})
		return
	}
	c.JSON(http.StatusOK, foods)
}

// LikeFood handles PUT /food/:id/like
func (h *Handler) LikeFood(c *gin.Context) {
	h.setLiked(c, true)
}

// UnlikeFood handles PUT /food/:id/unlike
func (h *Handler) UnlikeFood(c *gin.Context) {
	h.setLiked(c, false)
}

// setLiked replies success=false when the food already had the requested state
func (h *Handler) setLiked(c *gin.Context, liked bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	changed, err := h.repo.SetLiked(c.Request.Context(), id, liked)
	switch {
	case errors.Is(err, domain.ErrFoodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.Errorw("set liked failed", "food_id", id, "liked", liked, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update food"})
		return
	}

	h.log.Infow("food like state", "food_id", id, "liked", liked, "changed", changed)
	c.JSON(http.StatusOK, likeResponse{Success: changed})
}
