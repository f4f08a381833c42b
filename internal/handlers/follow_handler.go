package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"github.com/mhasanr/linkup/backend/internal/services"
)

// FollowHandler handles HTTP requests related to follows
type FollowHandler struct {
	relationshipService *services.RelationshipService
	followRepo          repositories.FollowRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(relationshipService *services.RelationshipService, followRepo repositories.FollowRepository) *FollowHandler {
	return &FollowHandler{
		relationshipService: relationshipService,
		followRepo:          followRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// ToggleFollow follows the user if not followed, unfollows otherwise
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	following, err := h.relationshipService.ToggleFollow(userID, targetID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": following})
}

// GetFollowers lists users following the given user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	followers, err := h.followRepo.GetFollowers(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, followers)
}

// GetFollowing lists users the given user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	following, err := h.followRepo.GetFollowing(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, following)
}
