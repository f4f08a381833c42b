package repositories

import (
	"github.com/mhasanr/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// CommentLikeRepository defines the interface for comment-like reads
type CommentLikeRepository interface {
	HasUserLikedComment(userID, commentID uint) (bool, error)
	CountCommentLikeRows(commentID uint) (int64, error)
}

// PostgresCommentLikeRepository implements CommentLikeRepository for PostgreSQL
type PostgresCommentLikeRepository struct {
	db *gorm.DB
}

// NewPostgresCommentLikeRepository creates a new PostgresCommentLikeRepository
func NewPostgresCommentLikeRepository(db *gorm.DB) *PostgresCommentLikeRepository {
	return &PostgresCommentLikeRepository{db: db}
}

// HasUserLikedComment checks if a user has liked a specific comment
func (r *PostgresCommentLikeRepository) HasUserLikedComment(userID, commentID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountCommentLikeRows counts actual CommentLike rows for the comment
func (r *PostgresCommentLikeRepository) CountCommentLikeRows(commentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}
