package services

import (
	"errors"

	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"gorm.io/gorm"
)

// RelationshipService manages the friendship state machine and follow
// toggling. It owns every transition that touches the follower/following
// counters.
type RelationshipService struct {
	db               *gorm.DB
	userRepo         repositories.UserRepository
	friendshipRepo   repositories.FriendshipRepository
	notificationRepo repositories.NotificationRepository
}

// NewRelationshipService creates a new RelationshipService. notificationRepo
// may be nil; notifications are fire-and-forget.
func NewRelationshipService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	friendshipRepo repositories.FriendshipRepository,
	notificationRepo repositories.NotificationRepository,
) *RelationshipService {
	return &RelationshipService{
		db:               db,
		userRepo:         userRepo,
		friendshipRepo:   friendshipRepo,
		notificationRepo: notificationRepo,
	}
}

// SendFriendRequest creates a pending friendship from fromUserID to
// toUserID. Any existing row for the exact ordered pair blocks
// resubmission, including a previously rejected one. No counters move
// here; counters reflect accepted friendships only.
func (s *RelationshipService) SendFriendRequest(fromUserID, toUserID uint) (*models.Friendship, error) {
	if fromUserID == toUserID {
		return nil, models.NewSelfReferenceError("Cannot send a friend request to yourself")
	}

	if _, err := s.userRepo.GetUserByID(toUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", toUserID)
		}
		return nil, models.NewInternalError(err)
	}

	existing, err := s.friendshipRepo.GetFriendshipByPair(fromUserID, toUserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return nil, models.NewDuplicateRequestError("Friend request already " + string(existing.Status))
	}

	friendship := &models.Friendship{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     models.FriendshipStatusPending,
	}
	if err := s.db.Create(friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with an identical request.
			return nil, models.NewDuplicateRequestError("Friend request already exists")
		}
		return nil, models.NewInternalError(err)
	}

	s.notify(&models.Notification{
		Type:        "friend_request",
		ActorID:     fromUserID,
		RecipientID: toUserID,
		TargetID:    friendship.ID,
		TargetType:  "friendship",
		Message:     "sent you a friend request",
	})

	return friendship, nil
}

// AcceptFriendRequest transitions a pending request to accepted and bumps
// the pair's counters. Only the addressed user may accept. The status check
// and the transition are a single test-and-set so two concurrent accepts
// cannot both increment.
func (s *RelationshipService) AcceptFriendRequest(userID, friendshipID uint) (*models.Friendship, error) {
	friendship, err := s.loadFriendship(friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship.ToUserID != userID {
		return nil, models.NewPermissionDeniedError("Only the recipient can accept a friend request")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Friendship{}).
			Where("id = ? AND status = ?", friendshipID, models.FriendshipStatusPending).
			Update("status", models.FriendshipStatusAccepted)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewInvalidStateError("Friend request is not pending")
		}

		if err := adjustCounter(tx, &models.User{}, friendship.FromUserID, "following_count", 1); err != nil {
			return err
		}
		return adjustCounter(tx, &models.User{}, friendship.ToUserID, "followers_count", 1)
	})
	if err != nil {
		return nil, err
	}

	s.notify(&models.Notification{
		Type:        "friend_request",
		ActorID:     userID,
		RecipientID: friendship.FromUserID,
		TargetID:    friendship.ID,
		TargetType:  "friendship",
		Message:     "accepted your friend request",
	})

	friendship.Status = models.FriendshipStatusAccepted
	return friendship, nil
}

// RejectFriendRequest transitions a pending request to rejected. Terminal,
// no counter effect, and the ordered pair stays blocked for resubmission.
func (s *RelationshipService) RejectFriendRequest(userID, friendshipID uint) (*models.Friendship, error) {
	friendship, err := s.loadFriendship(friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship.ToUserID != userID {
		return nil, models.NewPermissionDeniedError("Only the recipient can reject a friend request")
	}

	res := s.db.Model(&models.Friendship{}).
		Where("id = ? AND status = ?", friendshipID, models.FriendshipStatusPending).
		Update("status", models.FriendshipStatusRejected)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewInvalidStateError("Friend request is not pending")
	}

	friendship.Status = models.FriendshipStatusRejected
	return friendship, nil
}

// ToggleFollow follows the target if not already followed, unfollows
// otherwise, and reports the resulting state. Deliberately leaves
// followers_count/following_count alone: those counters track friendship
// acceptance, not follows.
func (s *RelationshipService) ToggleFollow(followerID, targetID uint) (bool, error) {
	if followerID == targetID {
		return false, models.NewSelfReferenceError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetUserByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("User", targetID)
		}
		return false, models.NewInternalError(err)
	}

	var following bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var terr error
		following, terr = toggleRelation(tx,
			map[string]interface{}{"follower_id": followerID, "following_id": targetID},
			&models.Follow{FollowerID: followerID, FollowingID: targetID},
			nil,
		)
		return terr
	})
	if err != nil {
		return false, err
	}

	if following {
		s.notify(&models.Notification{
			Type:        "follow",
			ActorID:     followerID,
			RecipientID: targetID,
			TargetID:    followerID,
			TargetType:  "user",
			Message:     "started following you",
		})
	}
	return following, nil
}

func (s *RelationshipService) loadFriendship(id uint) (*models.Friendship, error) {
	friendship, err := s.friendshipRepo.GetFriendshipByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return friendship, nil
}

func (s *RelationshipService) notify(n *models.Notification) {
	if s.notificationRepo == nil {
		return
	}
	// Best effort; a lost notification never fails the operation.
	_ = s.notificationRepo.CreateNotification(n)
}
