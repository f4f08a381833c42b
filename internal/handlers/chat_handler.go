package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/services"
)

// ChatHandler handles HTTP requests related to chat rooms and messages
type ChatHandler struct {
	conversationService *services.ConversationService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(conversationService *services.ConversationService) *ChatHandler {
	return &ChatHandler{conversationService: conversationService}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/chat/rooms", h.CreateRoom)
	g.GET("/chat/rooms", h.ListRooms)
	g.GET("/chat/rooms/:id", h.GetRoom)
	g.POST("/chat/rooms/:id/messages", h.SendMessage)
	g.GET("/chat/rooms/:id/messages", h.GetMessages)
	g.POST("/chat/rooms/:id/read", h.MarkRoomRead)
}

// CreateRoom opens a conversation. A direct room with one participant is
// deduplicated against existing direct rooms; a group room is always new.
func (h *ChatHandler) CreateRoom(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	roomType := req.RoomType
	if roomType == "" {
		if len(req.Participants) == 1 {
			roomType = models.RoomTypeDirect
		} else {
			roomType = models.RoomTypeGroup
		}
	}
	ctx := c.Request().Context()

	if roomType == models.RoomTypeDirect {
		if len(req.Participants) != 1 {
			return models.RespondWithError(c, models.NewValidationError("A direct room takes exactly one participant"))
		}
		room, created, err := h.conversationService.GetOrCreateDirectRoom(ctx, userID, req.Participants[0])
		if err != nil {
			return models.RespondWithError(c, err)
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return c.JSON(status, room)
	}

	room, err := h.conversationService.CreateGroupRoom(ctx, userID, req.Name, req.Participants)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// ListRooms lists the caller's rooms, most recently active first
func (h *ChatHandler) ListRooms(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	summaries, err := h.conversationService.ListRooms(c.Request().Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetRoom returns one room with members, last message and unread count
func (h *ChatHandler) GetRoom(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	summary, err := h.conversationService.GetRoom(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// SendMessage appends a message to a room
func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.conversationService.SendMessage(c.Request().Context(), userID, c.Param("id"), &req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// GetMessages returns a page of a room's messages, oldest first
func (h *ChatHandler) GetMessages(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	offset, limit := parsePagination(c, 50)

	messages, err := h.conversationService.GetMessages(c.Request().Context(), userID, c.Param("id"), int64(offset), int64(limit))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, messages)
}

// MarkRoomRead marks every message in a room as read by the caller
func (h *ChatHandler) MarkRoomRead(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	marked, err := h.conversationService.MarkRoomRead(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"marked_read": marked})
}
