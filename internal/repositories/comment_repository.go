package repositories

import (
	"github.com/mhasanr/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment read operations.
// Create and delete live in the engagement service.
type CommentRepository interface {
	GetCommentByID(id uint) (*models.Comment, error)
	GetTopLevelComments(postID uint) ([]models.Comment, error)
	GetReplies(parentID uint) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	CountCommentRows(postID uint) (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetTopLevelComments retrieves comments on a post with no parent,
// newest first. Replies are fetched per node via GetReplies.
func (r *PostgresCommentRepository) GetTopLevelComments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("post_id = ? AND parent_id IS NULL", postID).
		Preload("User").
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetReplies retrieves direct replies to a comment, oldest first
func (r *PostgresCommentRepository) GetReplies(parentID uint) ([]models.Comment, error) {
	var replies []models.Comment
	if err := r.db.Where("parent_id = ?", parentID).
		Preload("User").
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// UpdateComment updates an existing comment
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// CountCommentRows counts actual Comment rows on the post. Cross-check for
// the cached comments_count.
func (r *PostgresCommentRepository) CountCommentRows(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
