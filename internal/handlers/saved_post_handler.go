package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"github.com/mhasanr/linkup/backend/internal/services"
)

// SavedPostHandler handles HTTP requests for the user's private saved
// collection
type SavedPostHandler struct {
	engagementService *services.EngagementService
	savedPostRepo     repositories.SavedPostRepository
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(engagementService *services.EngagementService, savedPostRepo repositories.SavedPostRepository) *SavedPostHandler {
	return &SavedPostHandler{
		engagementService: engagementService,
		savedPostRepo:     savedPostRepo,
	}
}

// RegisterSavedPostRoutes registers saved-post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:id/save", h.ToggleSave)
	g.GET("/me/saved", h.GetSavedPosts)
}

// ToggleSave saves the post if not saved, removes it otherwise
func (h *SavedPostHandler) ToggleSave(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	saved, err := h.engagementService.ToggleSavePost(userID, postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": saved})
}

// GetSavedPosts lists the caller's saved posts
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	posts, err := h.savedPostRepo.GetSavedPosts(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}
