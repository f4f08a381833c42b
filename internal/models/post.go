package models

import "time"

// Post is a user post. The engagement counters are cached aggregates kept
// in sync with the Like/Comment tables by the engagement service; they are
// mutated in the same transaction as the row change that causes them.
type Post struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"not null;index"`
	Caption  string `json:"caption" gorm:"size:2200"`
	ImageURL string `json:"image_url"`
	VideoURL string `json:"video_url"`

	// Engagement metrics (cached aggregates)
	LikesCount    int `json:"likes_count" gorm:"default:0"`
	CommentsCount int `json:"comments_count" gorm:"default:0"`
	SharesCount   int `json:"shares_count" gorm:"default:0"`

	IsPublic bool `json:"is_public" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Caption  string `json:"caption" validate:"max=2200"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	VideoURL string `json:"video_url,omitempty" validate:"omitempty,url"`
	IsPublic *bool  `json:"is_public,omitempty"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Caption  string `json:"caption,omitempty" validate:"omitempty,max=2200"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	VideoURL string `json:"video_url,omitempty" validate:"omitempty,url"`
	IsPublic *bool  `json:"is_public,omitempty"`
}
