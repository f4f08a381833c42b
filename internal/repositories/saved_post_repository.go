package repositories

import (
	"github.com/mhasanr/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// SavedPostRepository defines the interface for saved-post reads
type SavedPostRepository interface {
	HasUserSavedPost(userID, postID uint) (bool, error)
	GetSavedPosts(userID uint) ([]models.Post, error)
	GetSavedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresSavedPostRepository implements SavedPostRepository for PostgreSQL
type PostgresSavedPostRepository struct {
	db *gorm.DB
}

// NewPostgresSavedPostRepository creates a new PostgresSavedPostRepository
func NewPostgresSavedPostRepository(db *gorm.DB) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db}
}

// HasUserSavedPost checks if a user has saved a specific post
func (r *PostgresSavedPostRepository) HasUserSavedPost(userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.SavedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetSavedPosts retrieves the posts a user has saved, newest save first
func (r *PostgresSavedPostRepository) GetSavedPosts(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("User").
		Joins("JOIN saved_posts sp ON sp.post_id = posts.id").
		Where("sp.user_id = ?", userID).
		Order("sp.created_at DESC").
		Find(&posts).Error
	return posts, err
}

// GetSavedPostIDs returns which of the given posts the user has saved
func (r *PostgresSavedPostRepository) GetSavedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	if len(postIDs) == 0 {
		return map[uint]bool{}, nil
	}
	var ids []uint
	if err := r.db.Model(&models.SavedPost{}).
		Where("user_id = ? AND post_id IN (?)", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	saved := make(map[uint]bool, len(ids))
	for _, id := range ids {
		saved[id] = true
	}
	return saved, nil
}
