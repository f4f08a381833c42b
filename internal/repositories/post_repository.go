package repositories

import (
	"github.com/mhasanr/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations. Create and
// delete live in the engagement service because they must be transactional
// with the owner's posts_count.
type PostRepository interface {
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByUserID(userID uint, offset, limit int) ([]models.Post, error)
	GetFeedPosts(userID uint, followingIDs []uint, offset, limit int) ([]models.Post, error)
	UpdatePost(post *models.Post) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// GetPostByID retrieves a post by ID with its author
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("User").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostsByUserID retrieves posts by a specific user, newest first
func (r *PostgresPostRepository) GetPostsByUserID(userID uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("user_id = ?", userID).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetFeedPosts retrieves the user's feed: own posts, posts by followed
// users, and public posts, newest first.
func (r *PostgresPostRepository) GetFeedPosts(userID uint, followingIDs []uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("User").Order("created_at DESC").Offset(offset).Limit(limit)
	if len(followingIDs) > 0 {
		q = q.Where("user_id = ? OR user_id IN (?) OR is_public = ?", userID, followingIDs, true)
	} else {
		q = q.Where("user_id = ? OR is_public = ?", userID, true)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost updates an existing post
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}
