package models

import "time"

// Follow is a one-way follow relationship. Existence of the row is the
// "is following" fact; the follow endpoint toggles it. The unique index
// lets the storage layer arbitrate concurrent toggles.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
