package repositories

import (
	"github.com/mhasanr/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like read operations. The toggle
// lives in the engagement service.
type LikeRepository interface {
	HasUserLikedPost(userID, postID uint) (bool, error)
	GetLikesByPostID(postID uint) ([]models.Like, error)
	CountLikeRows(postID uint) (int64, error)
	GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikesByPostID retrieves all likes for a specific post
func (r *PostgresLikeRepository) GetLikesByPostID(postID uint) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.Where("post_id = ?", postID).Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// CountLikeRows counts actual Like rows for the post. Cross-check for the
// cached likes_count.
func (r *PostgresLikeRepository) CountLikeRows(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// GetLikedPostIDs returns which of the given posts the user has liked
func (r *PostgresLikeRepository) GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	if len(postIDs) == 0 {
		return map[uint]bool{}, nil
	}
	var ids []uint
	if err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN (?)", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	liked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
