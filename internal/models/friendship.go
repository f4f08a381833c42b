package models

import "time"

// FriendshipStatus is the state of a friendship request.
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
	FriendshipStatusRejected FriendshipStatus = "rejected"
	FriendshipStatusBlocked  FriendshipStatus = "blocked"
)

// Friendship is a directed friend request between two users. The unique
// index covers the ordered (from, to) pair, so A->B and B->A can exist as
// independent rows. State machine: pending -> accepted | rejected, both
// terminal. Accepting is the only transition that touches the follower /
// following counters on the two users.
type Friendship struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	FromUserID uint             `json:"from_user_id" gorm:"not null;index;uniqueIndex:idx_friendship_pair"`
	ToUserID   uint             `json:"to_user_id" gorm:"not null;index;uniqueIndex:idx_friendship_pair"`
	Status     FriendshipStatus `json:"status" gorm:"type:varchar(10);default:'pending';index"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	FromUser *User `json:"from_user,omitempty" gorm:"foreignKey:FromUserID"`
	ToUser   *User `json:"to_user,omitempty" gorm:"foreignKey:ToUserID"`
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	ToUserID uint `json:"to_user" validate:"required"`
}
