package models

import "time"

// Like marks that a user liked a post. One row per (user, post) pair; the
// toggle endpoint creates or deletes it together with the post's
// likes_count adjustment.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	CreatedAt time.Time `json:"created_at"`
}
