package services

import (
	"context"
	"errors"

	"github.com/mhasanr/linkup/backend/internal/cache"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"gorm.io/gorm"
)

// EngagementService manages posts, likes, comments, comment likes and
// saves, keeping the cached counters on Post, Comment and User in step with
// the underlying relation rows.
type EngagementService struct {
	db               *gorm.DB
	postRepo         repositories.PostRepository
	commentRepo      repositories.CommentRepository
	followRepo       repositories.FollowRepository
	notificationRepo repositories.NotificationRepository
	feedCache        *cache.FeedCache
}

// NewEngagementService creates a new EngagementService. notificationRepo
// may be nil; feedCache may be built over a nil client.
func NewEngagementService(
	db *gorm.DB,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	followRepo repositories.FollowRepository,
	notificationRepo repositories.NotificationRepository,
	feedCache *cache.FeedCache,
) *EngagementService {
	if feedCache == nil {
		feedCache = cache.NewFeedCache(nil)
	}
	return &EngagementService{
		db:               db,
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		followRepo:       followRepo,
		notificationRepo: notificationRepo,
		feedCache:        feedCache,
	}
}

// CreatePost stores a new post and bumps the author's posts_count.
func (s *EngagementService) CreatePost(userID uint, req *models.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		UserID:   userID,
		Caption:  req.Caption,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
		IsPublic: true,
	}
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return models.NewInternalError(err)
		}
		return adjustCounter(tx, &models.User{}, userID, "posts_count", 1)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateFeeds(userID)
	return s.loadPost(post.ID)
}

// DeletePost removes a post owned by userID along with its likes, comments
// and saves, and decrements the author's posts_count.
func (s *EngagementService) DeletePost(userID, postID uint) error {
	post, err := s.loadPost(postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewPermissionDeniedError("Only the author can delete a post")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", postID).Pluck("id", &commentIDs).Error; err != nil {
			return models.NewInternalError(err)
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		for _, cleanup := range []interface{}{&models.Like{}, &models.Comment{}, &models.SavedPost{}} {
			if err := tx.Where("post_id = ?", postID).Delete(cleanup).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		if err := tx.Delete(&models.Post{}, postID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return adjustCounter(tx, &models.User{}, userID, "posts_count", -1)
	})
	if err != nil {
		return err
	}

	s.invalidateFeeds(userID)
	return nil
}

// TogglePostLike likes the post if the user has not liked it, unlikes it
// otherwise, and returns the resulting state and likes_count. The counter
// moves with the relation row in the same transaction.
func (s *EngagementService) TogglePostLike(userID, postID uint) (bool, int, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return false, 0, err
	}

	var liked bool
	var likesCount int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var terr error
		liked, terr = toggleRelation(tx,
			map[string]interface{}{"user_id": userID, "post_id": postID},
			&models.Like{UserID: userID, PostID: postID},
			func(tx *gorm.DB, delta int) error {
				return adjustCounter(tx, &models.Post{}, postID, "likes_count", delta)
			},
		)
		if terr != nil {
			return terr
		}
		return readCounter(tx, &models.Post{}, postID, "likes_count", &likesCount)
	})
	if err != nil {
		return false, 0, err
	}

	if liked && post.UserID != userID {
		s.notify(&models.Notification{
			Type:        "like",
			ActorID:     userID,
			RecipientID: post.UserID,
			TargetID:    postID,
			TargetType:  "post",
			Message:     "liked your post",
		})
	}
	return liked, likesCount, nil
}

// ToggleSavePost saves the post to the user's collection, or removes it if
// already saved. Saves are private; no counters and no notifications.
func (s *EngagementService) ToggleSavePost(userID, postID uint) (bool, error) {
	if _, err := s.loadPost(postID); err != nil {
		return false, err
	}

	var saved bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var terr error
		saved, terr = toggleRelation(tx,
			map[string]interface{}{"user_id": userID, "post_id": postID},
			&models.SavedPost{UserID: userID, PostID: postID},
			nil,
		)
		return terr
	})
	return saved, err
}

// AddComment creates a comment on a post. A reply's parent must be an
// existing comment on the same post; nesting depth is not bounded.
// comments_count counts replies too.
func (s *EngagementService) AddComment(userID, postID uint, req *models.CreateCommentRequest) (*models.Comment, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetCommentByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Comment", *req.ParentID)
			}
			return nil, models.NewInternalError(err)
		}
		if parent.PostID != postID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		UserID:   userID,
		PostID:   postID,
		Text:     req.Text,
		ParentID: req.ParentID,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return models.NewInternalError(err)
		}
		return adjustCounter(tx, &models.Post{}, postID, "comments_count", 1)
	})
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		s.notify(&models.Notification{
			Type:        "comment",
			ActorID:     userID,
			RecipientID: post.UserID,
			TargetID:    postID,
			TargetType:  "post",
			Message:     "commented on your post",
		})
	}

	loaded, err := s.commentRepo.GetCommentByID(comment.ID)
	if err != nil {
		return comment, nil
	}
	return loaded, nil
}

// UpdateComment edits the text of a comment owned by userID.
func (s *EngagementService) UpdateComment(userID, commentID uint, req *models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.loadComment(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewPermissionDeniedError("Only the author can edit a comment")
	}

	comment.Text = req.Text
	if err := s.commentRepo.UpdateComment(comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// DeleteComment removes a comment owned by userID together with its whole
// reply subtree and the likes on every removed comment. comments_count
// drops by one; replies removed in the cascade are not subtracted.
func (s *EngagementService) DeleteComment(userID, commentID uint) error {
	comment, err := s.loadComment(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewPermissionDeniedError("Only the author can delete a comment")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Walk the reply tree level by level; parents predate children,
		// so the walk terminates.
		ids := []uint{commentID}
		frontier := []uint{commentID}
		for len(frontier) > 0 {
			var next []uint
			if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
				return models.NewInternalError(err)
			}
			ids = append(ids, next...)
			frontier = next
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return adjustCounter(tx, &models.Post{}, comment.PostID, "comments_count", -1)
	})
}

// ToggleCommentLike likes or unlikes a comment, returning the resulting
// state and likes_count.
func (s *EngagementService) ToggleCommentLike(userID, commentID uint) (bool, int, error) {
	comment, err := s.loadComment(commentID)
	if err != nil {
		return false, 0, err
	}

	var liked bool
	var likesCount int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var terr error
		liked, terr = toggleRelation(tx,
			map[string]interface{}{"user_id": userID, "comment_id": commentID},
			&models.CommentLike{UserID: userID, CommentID: commentID},
			func(tx *gorm.DB, delta int) error {
				return adjustCounter(tx, &models.Comment{}, commentID, "likes_count", delta)
			},
		)
		if terr != nil {
			return terr
		}
		return readCounter(tx, &models.Comment{}, commentID, "likes_count", &likesCount)
	})
	if err != nil {
		return false, 0, err
	}

	if liked && comment.UserID != userID {
		s.notify(&models.Notification{
			Type:        "like",
			ActorID:     userID,
			RecipientID: comment.UserID,
			TargetID:    commentID,
			TargetType:  "comment",
			Message:     "liked your comment",
		})
	}
	return liked, likesCount, nil
}

func (s *EngagementService) loadPost(id uint) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *EngagementService) loadComment(id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// invalidateFeeds drops cached feed pages for the author and everyone
// following them. Best effort: feeds that slip through age out on their
// TTL.
func (s *EngagementService) invalidateFeeds(authorID uint) {
	ids := []uint{authorID}
	if s.followRepo != nil {
		followerIDs, err := s.followRepo.GetFollowerIDs(authorID)
		if err == nil {
			ids = append(ids, followerIDs...)
		}
	}
	s.feedCache.Invalidate(context.Background(), ids...)
}

func (s *EngagementService) notify(n *models.Notification) {
	if s.notificationRepo == nil {
		return
	}
	_ = s.notificationRepo.CreateNotification(n)
}
