package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/mhasanr/linkup/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository defines the interface for chat room and message storage.
type ChatRepository interface {
	EnsureIndexes(ctx context.Context) error
	CreateRoom(ctx context.Context, room *models.ChatRoom) error
	GetRoomByID(ctx context.Context, id string) (*models.ChatRoom, error)
	// FindDirectRoomWith returns a direct room whose participant set
	// contains both users, or nil when none exists.
	FindDirectRoomWith(ctx context.Context, userA, userB uint) (*models.ChatRoom, error)
	GetRoomsForUser(ctx context.Context, userID uint) ([]models.ChatRoom, error)
	TouchRoom(ctx context.Context, roomID primitive.ObjectID, at time.Time) error
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessages(ctx context.Context, roomID primitive.ObjectID, skip, limit int64) ([]models.Message, error)
	GetLastMessage(ctx context.Context, roomID primitive.ObjectID) (*models.Message, error)
	CountUnread(ctx context.Context, roomID primitive.ObjectID, userID uint) (int64, error)
	// MarkRoomRead adds the reader to read_by on every message in the room
	// authored by someone else and not yet read by them, flips is_read, and
	// returns the number of messages newly marked.
	MarkRoomRead(ctx context.Context, roomID primitive.ObjectID, readerID uint) (int64, error)
}

// MongoChatRepository implements ChatRepository for MongoDB
type MongoChatRepository struct {
	rooms    *mongo.Collection
	messages *mongo.Collection
}

// NewMongoChatRepository creates a new MongoChatRepository
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{
		rooms:    db.Collection("chat_rooms"),
		messages: db.Collection("messages"),
	}
}

// EnsureIndexes creates the indexes the repository relies on. The unique
// sparse index on direct_key is what serializes concurrent find-or-create
// calls for the same participant pair.
func (r *MongoChatRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.rooms.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "direct_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "participant_ids", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = r.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

// CreateRoom inserts a room. A duplicate direct_key (two concurrent creates
// for the same pair) surfaces as a CONFLICT AppError so the caller can
// retry the lookup.
func (r *MongoChatRepository) CreateRoom(ctx context.Context, room *models.ChatRoom) error {
	room.ID = primitive.NewObjectID()
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	if _, err := r.rooms.InsertOne(ctx, room); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("direct room already exists for this pair", err)
		}
		return err
	}
	return nil
}

// GetRoomByID retrieves a room by its hex ID
func (r *MongoChatRepository) GetRoomByID(ctx context.Context, id string) (*models.ChatRoom, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid room ID format: %w", err)
	}

	var room models.ChatRoom
	if err := r.rooms.FindOne(ctx, bson.M{"_id": objID}).Decode(&room); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("Chat room", id)
		}
		return nil, err
	}
	return &room, nil
}

// FindDirectRoomWith looks up a direct room containing both users. This is
// a containment check, not an exact-pair check, so a direct room that
// somehow gained a third participant still matches.
func (r *MongoChatRepository) FindDirectRoomWith(ctx context.Context, userA, userB uint) (*models.ChatRoom, error) {
	filter := bson.M{
		"room_type":       models.RoomTypeDirect,
		"participant_ids": bson.M{"$all": bson.A{userA, userB}},
	}
	var room models.ChatRoom
	if err := r.rooms.FindOne(ctx, filter).Decode(&room); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// GetRoomsForUser retrieves rooms the user participates in, most recently
// active first.
func (r *MongoChatRepository) GetRoomsForUser(ctx context.Context, userID uint) ([]models.ChatRoom, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.rooms.Find(ctx, bson.M{"participant_ids": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rooms []models.ChatRoom
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// TouchRoom refreshes the room's updated_at so listings order by activity
func (r *MongoChatRepository) TouchRoom(ctx context.Context, roomID primitive.ObjectID, at time.Time) error {
	_, err := r.rooms.UpdateByID(ctx, roomID, bson.M{"$set": bson.M{"updated_at": at}})
	return err
}

// CreateMessage inserts a message
func (r *MongoChatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = msg.CreatedAt
	if msg.ReadBy == nil {
		msg.ReadBy = []uint{}
	}
	_, err := r.messages.InsertOne(ctx, msg)
	return err
}

// GetMessages retrieves messages in a room, oldest first
func (r *MongoChatRepository) GetMessages(ctx context.Context, roomID primitive.ObjectID, skip, limit int64) ([]models.Message, error) {
	findOptions := options.Find().
		SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{"room_id": roomID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetLastMessage retrieves the most recent message in a room, nil if empty
func (r *MongoChatRepository) GetLastMessage(ctx context.Context, roomID primitive.ObjectID) (*models.Message, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var msg models.Message
	if err := r.messages.FindOne(ctx, bson.M{"room_id": roomID}, findOptions).Decode(&msg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// CountUnread counts messages in the room the user has not read and did
// not send.
func (r *MongoChatRepository) CountUnread(ctx context.Context, roomID primitive.ObjectID, userID uint) (int64, error) {
	return r.messages.CountDocuments(ctx, bson.M{
		"room_id":   roomID,
		"sender_id": bson.M{"$ne": userID},
		"read_by":   bson.M{"$ne": userID},
	})
}

// MarkRoomRead marks every unread message from other senders as read by
// the reader in one update.
func (r *MongoChatRepository) MarkRoomRead(ctx context.Context, roomID primitive.ObjectID, readerID uint) (int64, error) {
	res, err := r.messages.UpdateMany(ctx,
		bson.M{
			"room_id":   roomID,
			"sender_id": bson.M{"$ne": readerID},
			"read_by":   bson.M{"$ne": readerID},
		},
		bson.M{
			"$addToSet": bson.M{"read_by": readerID},
			"$set":      bson.M{"is_read": true, "updated_at": time.Now()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
