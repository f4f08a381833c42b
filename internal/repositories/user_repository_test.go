package repositories

import (
	"testing"

	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestCreateUserWithoutFirebaseUID(t *testing.T) {
	db := newUserTestDB(t)
	repo := NewPostgresUserRepository(db)

	// Local signups carry no Firebase UID; the unique index must not
	// treat two NULLs as a collision.
	require.NoError(t, repo.CreateUser(&models.User{Username: "alice", Email: "alice@example.com"}))
	require.NoError(t, repo.CreateUser(&models.User{Username: "bob", Email: "bob@example.com"}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestFirebaseUIDUniqueness(t *testing.T) {
	db := newUserTestDB(t)
	repo := NewPostgresUserRepository(db)

	uid := "fb-uid-123"
	require.NoError(t, repo.CreateUser(&models.User{Username: "carol", Email: "carol@example.com", FirebaseUID: &uid}))

	err := repo.CreateUser(&models.User{Username: "dave", Email: "dave@example.com", FirebaseUID: &uid})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := repo.GetUserByFirebaseUID(uid)
	require.NoError(t, err)
	assert.Equal(t, "carol", found.Username)
}
