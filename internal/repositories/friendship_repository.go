package repositories

import (
	"github.com/mhasanr/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship data operations.
// State transitions (accept/reject) live in the relationship service because
// they must be transactional with the counter updates.
type FriendshipRepository interface {
	GetFriendshipByID(id uint) (*models.Friendship, error)
	GetFriendshipByPair(fromUserID, toUserID uint) (*models.Friendship, error)
	GetPendingRequestsFor(userID uint) ([]models.Friendship, error)
	GetSentRequests(userID uint) ([]models.Friendship, error)
	GetFriends(userID uint) ([]models.User, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// GetFriendshipByID retrieves a friendship by ID
func (r *PostgresFriendshipRepository) GetFriendshipByID(id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.Preload("FromUser").Preload("ToUser").First(&friendship, id).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetFriendshipByPair retrieves the friendship for the exact ordered
// (from, to) pair. The reverse direction is an independent row.
func (r *PostgresFriendshipRepository) GetFriendshipByPair(fromUserID, toUserID uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		First(&friendship).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetPendingRequestsFor retrieves pending requests addressed to the user
func (r *PostgresFriendshipRepository) GetPendingRequestsFor(userID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	if err := r.db.Where("to_user_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("FromUser").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetSentRequests retrieves pending requests the user has sent
func (r *PostgresFriendshipRepository) GetSentRequests(userID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	if err := r.db.Where("from_user_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("ToUser").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetFriends retrieves all users with an accepted friendship with userID,
// in either direction.
func (r *PostgresFriendshipRepository) GetFriends(userID uint) ([]models.User, error) {
	var friends []models.User
	sent := r.db.Table("friendships").Select("to_user_id").
		Where("from_user_id = ? AND status = ?", userID, models.FriendshipStatusAccepted)
	received := r.db.Table("friendships").Select("from_user_id").
		Where("to_user_id = ? AND status = ?", userID, models.FriendshipStatusAccepted)

	if err := r.db.Where("id IN (?) OR id IN (?)", sent, received).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}
