package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"github.com/mhasanr/linkup/backend/internal/services"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	relationshipService *services.RelationshipService
	friendshipRepo      repositories.FriendshipRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(relationshipService *services.RelationshipService, friendshipRepo repositories.FriendshipRepository) *FriendshipHandler {
	return &FriendshipHandler{
		relationshipService: relationshipService,
		friendshipRepo:      friendshipRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/requests", h.SendFriendRequest)
	g.GET("/friends/requests/pending", h.GetPendingRequests)
	g.GET("/friends/requests/sent", h.GetSentRequests)
	g.POST("/friends/requests/:id/accept", h.AcceptFriendRequest)
	g.POST("/friends/requests/:id/reject", h.RejectFriendRequest)
	g.GET("/friends", h.GetFriends)
}

// SendFriendRequest handles sending a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	friendship, err := h.relationshipService.SendFriendRequest(userID, req.ToUserID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusCreated, friendship)
}

// GetPendingRequests lists pending requests addressed to the caller
func (h *FriendshipHandler) GetPendingRequests(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	requests, err := h.friendshipRepo.GetPendingRequestsFor(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, requests)
}

// GetSentRequests lists pending requests the caller has sent
func (h *FriendshipHandler) GetSentRequests(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	requests, err := h.friendshipRepo.GetSentRequests(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, requests)
}

// AcceptFriendRequest accepts a pending request addressed to the caller
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	friendshipID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	friendship, err := h.relationshipService.AcceptFriendRequest(userID, friendshipID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, friendship)
}

// RejectFriendRequest rejects a pending request addressed to the caller
func (h *FriendshipHandler) RejectFriendRequest(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	friendshipID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	friendship, err := h.relationshipService.RejectFriendRequest(userID, friendshipID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, friendship)
}

// GetFriends lists the caller's accepted friends
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	friends, err := h.friendshipRepo.GetFriends(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, friends)
}
