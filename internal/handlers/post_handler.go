package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"github.com/mhasanr/linkup/backend/internal/services"
	"gorm.io/gorm"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	engagementService *services.EngagementService
	postRepo          repositories.PostRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(engagementService *services.EngagementService, postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{
		engagementService: engagementService,
		postRepo:          postRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// CreatePost creates a new post for the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.engagementService.CreatePost(userID, &req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.postRepo.GetPostByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.RespondWithError(c, models.NewNotFoundError("Post", id))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost edits a post owned by the authenticated user
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepo.GetPostByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.RespondWithError(c, models.NewNotFoundError("Post", id))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.UserID != userID {
		return models.RespondWithError(c, models.NewPermissionDeniedError("Only the author can edit a post"))
	}

	if req.Caption != "" {
		post.Caption = req.Caption
	}
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if req.VideoURL != "" {
		post.VideoURL = req.VideoURL
	}
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}

	if err := h.postRepo.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost removes a post owned by the authenticated user
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.engagementService.DeletePost(userID, id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUserPosts lists a user's posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	offset, limit := parsePagination(c, 10)

	posts, err := h.postRepo.GetPostsByUserID(id, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}
