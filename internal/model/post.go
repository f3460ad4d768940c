package model

import (
	"errors"
	"time"
)

// Post is a piece of user content. Deletion is a soft delete: the row stays
// for referential integrity but every read path filters it out.
type Post struct {
	ID            int64      `db:"id" json:"id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	Content       string     `db:"content" json:"content"`
	Image         *string    `db:"image" json:"image"`
	LikesCount    int        `db:"likes_count" json:"likes_count"`
	CommentsCount int        `db:"comments_count" json:"comments_count"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted     bool       `db:"is_deleted" json:"-"`

	// Joined/derived fields (not columns on posts)
	Author         *UserSummary `json:"author,omitempty"`
	IsLiked        bool         `json:"is_liked"`
	RecentComments []Comment    `json:"recent_comments,omitempty"`
}

// Like marks that a user liked a post. One like per user per post; unliking
// removes the row outright.
type Like struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreatePostRequest is the request body for POST /posts.
type CreatePostRequest struct {
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

// UpdatePostRequest is the request body for PUT /posts/{id}.
// Only content and image are mutable; nil fields are left unchanged.
type UpdatePostRequest struct {
	Content *string `json:"content"`
	Image   *string `json:"image"`
}

// PostListResponse is the paginated post list response (profile pages).
type PostListResponse struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

const MaxPostContentLength = 1000

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not the owner of this post")

	// Shared by posts and comments; callers attach the entity-specific limit.
	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content too long")

	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post not liked")
)
