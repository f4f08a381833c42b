package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User holds an account and its denormalized social counters. The counters
// are cached aggregates maintained by the relationship and engagement
// services on each state transition; they are never recomputed on read.
type User struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"size:150;uniqueIndex"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	Password    string `json:"-"` // bcrypt hash, never serialized
	Bio         string `json:"bio" gorm:"size:500"`
	AvatarURL   string `json:"avatar_url"`
	// Nullable so locally registered accounts do not collide on the
	// unique index; set only on Firebase login.
	FirebaseUID *string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`

	// Social stats (cached aggregates)
	FollowersCount int `json:"followers_count" gorm:"default:0"`
	FollowingCount int `json:"following_count" gorm:"default:0"`
	PostsCount     int `json:"posts_count" gorm:"default:0"`

	IsPrivate  bool `json:"is_private" gorm:"default:false"`
	IsVerified bool `json:"is_verified" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCompact is the minimal author payload embedded in posts, comments and
// chat responses.
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Compact returns the embeddable form of the user.
func (u *User) Compact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SigninRequest defines the request body for local login
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseRegisterRequest defines the request body for registering a user
// already authenticated against Firebase
type FirebaseRegisterRequest struct {
	Username    string `json:"username" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	FirebaseUID string `json:"firebase_uid" validate:"required"`
}

// UpdateUserRequest defines the request body for profile updates
type UpdateUserRequest struct {
	Username  string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	IsPrivate *bool  `json:"is_private,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
