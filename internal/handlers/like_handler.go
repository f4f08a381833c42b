package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"github.com/mhasanr/linkup/backend/internal/services"
)

// LikeHandler handles HTTP requests related to post likes
type LikeHandler struct {
	engagementService *services.EngagementService
	likeRepo          repositories.LikeRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engagementService *services.EngagementService, likeRepo repositories.LikeRepository) *LikeHandler {
	return &LikeHandler{
		engagementService: engagementService,
		likeRepo:          likeRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.GET("/posts/:id/likes", h.GetLikes)
}

// ToggleLike likes the post if not liked, unlikes otherwise
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	liked, likesCount, err := h.engagementService.TogglePostLike(userID, postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "likes_count": likesCount})
}

// GetLikes lists likes on a post
func (h *LikeHandler) GetLikes(c echo.Context) error {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	likes, err := h.likeRepo.GetLikesByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, likes)
}
