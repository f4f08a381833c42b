package models

import "time"

// Comment is a comment on a post. ParentID links replies into a tree of
// unbounded depth; parents always predate children, so parent chains are
// acyclic. Deleting a parent cascades to its replies at the storage layer.
type Comment struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"not null;index"`
	PostID   uint   `json:"post_id" gorm:"not null;index"`
	Text     string `json:"text" gorm:"size:500;not null"`
	ParentID *uint  `json:"parent_id,omitempty" gorm:"index"`

	// LikesCount is a cached aggregate over CommentLike rows
	LikesCount int `json:"likes_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Replies []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=500"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
