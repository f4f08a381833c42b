package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"github.com/mhasanr/linkup/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engagementService *services.EngagementService
	commentRepo       repositories.CommentRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engagementService *services.EngagementService, commentRepo repositories.CommentRepository) *CommentHandler {
	return &CommentHandler{
		engagementService: engagementService,
		commentRepo:       commentRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.AddComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
}

// AddComment creates a comment or a reply on a post
func (h *CommentHandler) AddComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.engagementService.AddComment(userID, postID, &req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetComments lists a post's comments as a tree: top-level comments newest
// first, each with its replies oldest first.
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	comments, err := h.commentRepo.GetTopLevelComments(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for i := range comments {
		if err := h.attachReplies(&comments[i]); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, comments)
}

// attachReplies loads the full reply subtree under a comment. Replies can
// themselves have replies, so each level recurses.
func (h *CommentHandler) attachReplies(comment *models.Comment) error {
	replies, err := h.commentRepo.GetReplies(comment.ID)
	if err != nil {
		return err
	}
	for i := range replies {
		if err := h.attachReplies(&replies[i]); err != nil {
			return err
		}
	}
	comment.Replies = replies
	return nil
}

// UpdateComment edits a comment owned by the authenticated user
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.engagementService.UpdateComment(userID, commentID, &req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment owned by the authenticated user
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.engagementService.DeleteComment(userID, commentID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleCommentLike likes the comment if not liked, unlikes otherwise
func (h *CommentHandler) ToggleCommentLike(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	liked, likesCount, err := h.engagementService.ToggleCommentLike(userID, commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "likes_count": likesCount})
}
