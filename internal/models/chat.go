package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room types
const (
	RoomTypeDirect = "direct"
	RoomTypeGroup  = "group"
)

// Message types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
	MessageTypeFile  = "file"
)

// ChatRoom is a conversation stored in MongoDB. For direct rooms DirectKey
// holds the canonical "min:max" participant pair; a unique sparse index on
// it serializes concurrent find-or-create calls for the same pair.
type ChatRoom struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RoomType       string             `json:"room_type" bson:"room_type"`
	Name           string             `json:"name,omitempty" bson:"name,omitempty"`
	ParticipantIDs []uint             `json:"participant_ids" bson:"participant_ids"`
	DirectKey      string             `json:"-" bson:"direct_key,omitempty"`
	CreatedBy      uint               `json:"created_by" bson:"created_by"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasParticipant reports whether the user belongs to the room.
func (r *ChatRoom) HasParticipant(userID uint) bool {
	for _, id := range r.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DirectRoomKey builds the canonical pair key for a direct room,
// independent of argument order.
func DirectRoomKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// Message is a chat message stored in MongoDB. ReadBy lists every
// non-sender who acknowledged it; IsRead flips true as soon as any one
// non-sender has read it, so in a group room it is a coarse flag.
type Message struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RoomID      primitive.ObjectID `json:"room_id" bson:"room_id"`
	SenderID    uint               `json:"sender_id" bson:"sender_id"`
	MessageType string             `json:"message_type" bson:"message_type"`
	Content     string             `json:"content" bson:"content"`
	FileURL     string             `json:"file_url,omitempty" bson:"file_url,omitempty"`
	IsRead      bool               `json:"is_read" bson:"is_read"`
	ReadBy      []uint             `json:"read_by" bson:"read_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateRoomRequest defines the request body for creating a chat room
type CreateRoomRequest struct {
	RoomType     string `json:"room_type" validate:"omitempty,oneof=direct group"`
	Name         string `json:"name,omitempty" validate:"omitempty,max=100"`
	Participants []uint `json:"participants" validate:"required,min=1"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	MessageType string `json:"message_type,omitempty" validate:"omitempty,oneof=text image video file"`
	Content     string `json:"content" validate:"required,min=1,max=10000"`
	FileURL     string `json:"file_url,omitempty" validate:"omitempty,url"`
}
