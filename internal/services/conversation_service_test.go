package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeChatRepository is an in-memory ChatRepository with the same uniqueness
// behavior as the Mongo implementation: one direct room per direct_key.
type fakeChatRepository struct {
	mu       sync.Mutex
	rooms    map[primitive.ObjectID]*models.ChatRoom
	messages map[primitive.ObjectID][]*models.Message
}

func newFakeChatRepository() *fakeChatRepository {
	return &fakeChatRepository{
		rooms:    make(map[primitive.ObjectID]*models.ChatRoom),
		messages: make(map[primitive.ObjectID][]*models.Message),
	}
}

func (f *fakeChatRepository) EnsureIndexes(ctx context.Context) error { return nil }

func (f *fakeChatRepository) CreateRoom(ctx context.Context, room *models.ChatRoom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room.DirectKey != "" {
		for _, existing := range f.rooms {
			if existing.DirectKey == room.DirectKey {
				return models.NewConflictError("room already exists", nil)
			}
		}
	}
	room.ID = primitive.NewObjectID()
	copied := *room
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeChatRepository) GetRoomByID(ctx context.Context, id string) (*models.ChatRoom, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewValidationError("invalid room id")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[objID]
	if !ok {
		return nil, models.NewNotFoundError("Chat room", id)
	}
	copied := *room
	return &copied, nil
}

func (f *fakeChatRepository) FindDirectRoomWith(ctx context.Context, userA, userB uint) (*models.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, room := range f.rooms {
		if room.RoomType == models.RoomTypeDirect && room.HasParticipant(userA) && room.HasParticipant(userB) {
			copied := *room
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepository) GetRoomsForUser(ctx context.Context, userID uint) ([]models.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rooms []models.ChatRoom
	for _, room := range f.rooms {
		if room.HasParticipant(userID) {
			rooms = append(rooms, *room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].UpdatedAt.After(rooms[j].UpdatedAt) })
	return rooms, nil
}

func (f *fakeChatRepository) TouchRoom(ctx context.Context, roomID primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok := f.rooms[roomID]; ok {
		room.UpdatedAt = at
	}
	return nil
}

func (f *fakeChatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	if msg.ReadBy == nil {
		msg.ReadBy = []uint{}
	}
	copied := *msg
	f.messages[msg.RoomID] = append(f.messages[msg.RoomID], &copied)
	return nil
}

func (f *fakeChatRepository) GetMessages(ctx context.Context, roomID primitive.ObjectID, skip, limit int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.messages[roomID]
	var out []models.Message
	for i, msg := range all {
		if int64(i) < skip {
			continue
		}
		if int64(len(out)) >= limit {
			break
		}
		out = append(out, *msg)
	}
	return out, nil
}

func (f *fakeChatRepository) GetLastMessage(ctx context.Context, roomID primitive.ObjectID) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.messages[roomID]
	if len(all) == 0 {
		return nil, nil
	}
	copied := *all[len(all)-1]
	return &copied, nil
}

func (f *fakeChatRepository) CountUnread(ctx context.Context, roomID primitive.ObjectID, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, msg := range f.messages[roomID] {
		if msg.SenderID != userID && !readBy(msg, userID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeChatRepository) MarkRoomRead(ctx context.Context, roomID primitive.ObjectID, readerID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var marked int64
	for _, msg := range f.messages[roomID] {
		if msg.SenderID != readerID && !readBy(msg, readerID) {
			msg.ReadBy = append(msg.ReadBy, readerID)
			msg.IsRead = true
			marked++
		}
	}
	return marked, nil
}

func readBy(msg *models.Message, userID uint) bool {
	for _, id := range msg.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

func newConversationFixture(t *testing.T) (*ConversationService, *fakeChatRepository, *models.User, *models.User, *models.User) {
	t.Helper()
	db := newTestDB(t)
	chatRepo := newFakeChatRepository()
	svc := NewConversationService(chatRepo, repositories.NewPostgresUserRepository(db))
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	return svc, chatRepo, alice, bob, carol
}

func TestGetOrCreateDirectRoom(t *testing.T) {
	svc, _, alice, bob, _ := newConversationFixture(t)
	ctx := context.Background()

	t.Run("rejects self reference", func(t *testing.T) {
		_, _, err := svc.GetOrCreateDirectRoom(ctx, alice.ID, alice.ID)
		requireAppErrorCode(t, err, models.CodeSelfReference)
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		_, _, err := svc.GetOrCreateDirectRoom(ctx, alice.ID, 9999)
		requireAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("first call creates, later calls return the same room", func(t *testing.T) {
		room, created, err := svc.GetOrCreateDirectRoom(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, models.RoomTypeDirect, room.RoomType)
		assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, room.ParticipantIDs)

		again, created, err := svc.GetOrCreateDirectRoom(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, room.ID, again.ID)

		// Order of the pair does not matter.
		reversed, created, err := svc.GetOrCreateDirectRoom(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, room.ID, reversed.ID)
	})
}

func TestGetOrCreateDirectRoomConcurrent(t *testing.T) {
	svc, chatRepo, alice, bob, _ := newConversationFixture(t)
	ctx := context.Background()

	const workers = 6
	var wg sync.WaitGroup
	roomIDs := make([]primitive.ObjectID, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room, _, err := svc.GetOrCreateDirectRoom(ctx, alice.ID, bob.ID)
			if err == nil {
				roomIDs[i] = room.ID
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, roomIDs[0], roomIDs[i], "every caller must land in the same room")
	}
	assert.Len(t, chatRepo.rooms, 1)
}

func TestCreateGroupRoom(t *testing.T) {
	svc, _, alice, bob, carol := newConversationFixture(t)
	ctx := context.Background()

	t.Run("creator is always a participant", func(t *testing.T) {
		room, err := svc.CreateGroupRoom(ctx, alice.ID, "trip", []uint{bob.ID, carol.ID})
		require.NoError(t, err)
		assert.Equal(t, models.RoomTypeGroup, room.RoomType)
		assert.Equal(t, "trip", room.Name)
		assert.ElementsMatch(t, []uint{alice.ID, bob.ID, carol.ID}, room.ParticipantIDs)
	})

	t.Run("unresolvable participants are skipped silently", func(t *testing.T) {
		room, err := svc.CreateGroupRoom(ctx, alice.ID, "ghosts", []uint{bob.ID, 9999})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, room.ParticipantIDs)
	})

	t.Run("duplicate ids collapse", func(t *testing.T) {
		room, err := svc.CreateGroupRoom(ctx, alice.ID, "dups", []uint{bob.ID, bob.ID, alice.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, room.ParticipantIDs)
	})

	t.Run("group rooms are never deduplicated", func(t *testing.T) {
		first, err := svc.CreateGroupRoom(ctx, alice.ID, "twice", []uint{bob.ID})
		require.NoError(t, err)
		second, err := svc.CreateGroupRoom(ctx, alice.ID, "twice", []uint{bob.ID})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestSendMessage(t *testing.T) {
	svc, _, alice, bob, carol := newConversationFixture(t)
	ctx := context.Background()

	room, _, err := svc.GetOrCreateDirectRoom(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	roomID := room.ID.Hex()

	t.Run("participants can send", func(t *testing.T) {
		msg, err := svc.SendMessage(ctx, alice.ID, roomID, &models.SendMessageRequest{Content: "hi"})
		require.NoError(t, err)
		assert.Equal(t, models.MessageTypeText, msg.MessageType)
		assert.Equal(t, alice.ID, msg.SenderID)
		assert.False(t, msg.IsRead)
	})

	t.Run("non-participants cannot", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, carol.ID, roomID, &models.SendMessageRequest{Content: "let me in"})
		requireAppErrorCode(t, err, models.CodePermissionDenied)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, alice.ID, primitive.NewObjectID().Hex(), &models.SendMessageRequest{Content: "void"})
		requireAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("malformed room id", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, alice.ID, "not-an-id", &models.SendMessageRequest{Content: "void"})
		requireAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("sending bumps room activity", func(t *testing.T) {
		before := room.UpdatedAt
		_, err := svc.SendMessage(ctx, bob.ID, roomID, &models.SendMessageRequest{Content: "hello back"})
		require.NoError(t, err)

		summary, err := svc.GetRoom(ctx, alice.ID, roomID)
		require.NoError(t, err)
		assert.True(t, summary.Room.UpdatedAt.After(before) || summary.Room.UpdatedAt.Equal(before))
		require.NotNil(t, summary.LastMessage)
		assert.Equal(t, "hello back", summary.LastMessage.Content)
	})
}

func TestMarkRoomRead(t *testing.T) {
	svc, _, alice, bob, carol := newConversationFixture(t)
	ctx := context.Background()

	room, err := svc.CreateGroupRoom(ctx, alice.ID, "readers", []uint{bob.ID, carol.ID})
	require.NoError(t, err)
	roomID := room.ID.Hex()

	for i := 0; i < 3; i++ {
		_, err := svc.SendMessage(ctx, alice.ID, roomID, &models.SendMessageRequest{Content: "ping"})
		require.NoError(t, err)
	}
	_, err = svc.SendMessage(ctx, bob.ID, roomID, &models.SendMessageRequest{Content: "pong"})
	require.NoError(t, err)

	t.Run("marks only other senders' messages", func(t *testing.T) {
		marked, err := svc.MarkRoomRead(ctx, bob.ID, roomID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), marked)
	})

	t.Run("idempotent on repeat", func(t *testing.T) {
		marked, err := svc.MarkRoomRead(ctx, bob.ID, roomID)
		require.NoError(t, err)
		assert.Zero(t, marked)
	})

	t.Run("unread counts are per reader", func(t *testing.T) {
		summaryBob, err := svc.GetRoom(ctx, bob.ID, roomID)
		require.NoError(t, err)
		assert.Zero(t, summaryBob.UnreadCount)

		// Carol never read anything; Alice's reads do not count for her.
		summaryCarol, err := svc.GetRoom(ctx, carol.ID, roomID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), summaryCarol.UnreadCount)
	})

	t.Run("non-participants cannot mark", func(t *testing.T) {
		outsider := uint(9999)
		_, err := svc.MarkRoomRead(ctx, outsider, roomID)
		requireAppErrorCode(t, err, models.CodePermissionDenied)
	})
}

func TestListRooms(t *testing.T) {
	svc, _, alice, bob, carol := newConversationFixture(t)
	ctx := context.Background()

	first, _, err := svc.GetOrCreateDirectRoom(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	second, _, err := svc.GetOrCreateDirectRoom(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	// Activity in the first room should float it to the top.
	time.Sleep(5 * time.Millisecond)
	_, err = svc.SendMessage(ctx, bob.ID, first.ID.Hex(), &models.SendMessageRequest{Content: "newest"})
	require.NoError(t, err)

	summaries, err := svc.ListRooms(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, first.ID, summaries[0].Room.ID)
	assert.Equal(t, second.ID, summaries[1].Room.ID)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "newest", summaries[0].LastMessage.Content)
	assert.Nil(t, summaries[1].LastMessage)
	assert.Equal(t, int64(1), summaries[0].UnreadCount)

	usernames := make([]string, 0, len(summaries[0].Members))
	for _, m := range summaries[0].Members {
		usernames = append(usernames, m.Username)
	}
	assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)

	t.Run("messages page oldest first", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, alice.ID, first.ID.Hex(), &models.SendMessageRequest{Content: "later"})
		require.NoError(t, err)

		messages, err := svc.GetMessages(ctx, alice.ID, first.ID.Hex(), 0, 50)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "newest", messages[0].Content)
		assert.Equal(t, "later", messages[1].Content)
	})
}
