package services

import (
	"context"
	"errors"
	"time"

	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// RoomSummary is a room together with the presentation fields the room list
// needs.
type RoomSummary struct {
	Room        *models.ChatRoom     `json:"room"`
	LastMessage *models.Message      `json:"last_message,omitempty"`
	UnreadCount int64                `json:"unread_count"`
	Members     []models.UserCompact `json:"members"`
}

// ConversationService manages chat rooms and messages on top of the Mongo
// chat store, resolving participants against the relational user store.
type ConversationService struct {
	chatRepo repositories.ChatRepository
	userRepo repositories.UserRepository
}

// NewConversationService creates a new ConversationService
func NewConversationService(chatRepo repositories.ChatRepository, userRepo repositories.UserRepository) *ConversationService {
	return &ConversationService{chatRepo: chatRepo, userRepo: userRepo}
}

// GetOrCreateDirectRoom returns the existing direct conversation between the
// two users, creating it if none exists. A room whose participant set merely
// contains both users satisfies the lookup. Concurrent creations for the
// same pair are arbitrated by the unique direct_key index; the loser retries
// the lookup once.
func (s *ConversationService) GetOrCreateDirectRoom(ctx context.Context, userID, otherID uint) (*models.ChatRoom, bool, error) {
	if userID == otherID {
		return nil, false, models.NewSelfReferenceError("Cannot open a chat with yourself")
	}
	if _, err := s.userRepo.GetUserByID(otherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, models.NewNotFoundError("User", otherID)
		}
		return nil, false, models.NewInternalError(err)
	}

	room, err := s.chatRepo.FindDirectRoomWith(ctx, userID, otherID)
	if err != nil {
		return nil, false, models.NewInternalError(err)
	}
	if room != nil {
		return room, false, nil
	}

	now := time.Now().UTC()
	room = &models.ChatRoom{
		RoomType:       models.RoomTypeDirect,
		ParticipantIDs: []uint{userID, otherID},
		DirectKey:      models.DirectRoomKey(userID, otherID),
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.chatRepo.CreateRoom(ctx, room); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeConflict {
			existing, lookupErr := s.chatRepo.FindDirectRoomWith(ctx, userID, otherID)
			if lookupErr != nil {
				return nil, false, models.NewInternalError(lookupErr)
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return room, true, nil
}

// CreateGroupRoom creates a group conversation. The creator is always a
// participant; requested participants that do not resolve to users are
// skipped without failing the call. Group rooms are never deduplicated.
func (s *ConversationService) CreateGroupRoom(ctx context.Context, creatorID uint, name string, participantIDs []uint) (*models.ChatRoom, error) {
	members := []uint{creatorID}
	seen := map[uint]bool{creatorID: true}
	for _, id := range participantIDs {
		if seen[id] {
			continue
		}
		if _, err := s.userRepo.GetUserByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, models.NewInternalError(err)
		}
		seen[id] = true
		members = append(members, id)
	}

	now := time.Now().UTC()
	room := &models.ChatRoom{
		RoomType:       models.RoomTypeGroup,
		Name:           name,
		ParticipantIDs: members,
		CreatedBy:      creatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.chatRepo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// SendMessage appends a message to a room on behalf of a participant and
// bumps the room's activity timestamp.
func (s *ConversationService) SendMessage(ctx context.Context, userID uint, roomID string, req *models.SendMessageRequest) (*models.Message, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, models.NewPermissionDeniedError("Not a participant of this room")
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	now := time.Now().UTC()
	msg := &models.Message{
		RoomID:      room.ID,
		SenderID:    userID,
		MessageType: messageType,
		Content:     req.Content,
		FileURL:     req.FileURL,
		ReadBy:      []uint{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.chatRepo.TouchRoom(ctx, room.ID, now); err != nil {
		return nil, models.NewInternalError(err)
	}
	return msg, nil
}

// GetMessages returns a page of messages from a room, oldest first, for a
// participant.
func (s *ConversationService) GetMessages(ctx context.Context, userID uint, roomID string, skip, limit int64) ([]models.Message, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, models.NewPermissionDeniedError("Not a participant of this room")
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	messages, err := s.chatRepo.GetMessages(ctx, room.ID, skip, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// MarkRoomRead records that userID has read every message in the room sent
// by others and returns how many messages were newly marked. Idempotent: a
// second call finds nothing left to mark.
func (s *ConversationService) MarkRoomRead(ctx context.Context, userID uint, roomID string) (int64, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}
	if !room.HasParticipant(userID) {
		return 0, models.NewPermissionDeniedError("Not a participant of this room")
	}

	marked, err := s.chatRepo.MarkRoomRead(ctx, room.ID, userID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return marked, nil
}

// ListRooms returns the user's rooms, most recently active first, each with
// its last message, the caller's unread count and the member profiles.
func (s *ConversationService) ListRooms(ctx context.Context, userID uint) ([]RoomSummary, error) {
	rooms, err := s.chatRepo.GetRoomsForUser(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		last, err := s.chatRepo.GetLastMessage(ctx, room.ID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		unread, err := s.chatRepo.CountUnread(ctx, room.ID, userID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		summaries = append(summaries, RoomSummary{
			Room:        room,
			LastMessage: last,
			UnreadCount: unread,
			Members:     s.resolveMembers(room.ParticipantIDs),
		})
	}
	return summaries, nil
}

// GetRoom returns a single room with member profiles for a participant.
func (s *ConversationService) GetRoom(ctx context.Context, userID uint, roomID string) (*RoomSummary, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, models.NewPermissionDeniedError("Not a participant of this room")
	}

	last, err := s.chatRepo.GetLastMessage(ctx, room.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	unread, err := s.chatRepo.CountUnread(ctx, room.ID, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &RoomSummary{
		Room:        room,
		LastMessage: last,
		UnreadCount: unread,
		Members:     s.resolveMembers(room.ParticipantIDs),
	}, nil
}

func (s *ConversationService) loadRoom(ctx context.Context, roomID string) (*models.ChatRoom, error) {
	if _, err := primitive.ObjectIDFromHex(roomID); err != nil {
		return nil, models.NewValidationError("Invalid room id")
	}
	room, err := s.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}
	return room, nil
}

// resolveMembers loads the compact profile for each participant, skipping
// ids that no longer resolve.
func (s *ConversationService) resolveMembers(ids []uint) []models.UserCompact {
	members := make([]models.UserCompact, 0, len(ids))
	for _, id := range ids {
		user, err := s.userRepo.GetUserByID(id)
		if err != nil {
			continue
		}
		members = append(members, user.Compact())
	}
	return members
}
