package model

import (
	"errors"
	"time"
)

// Comment belongs to a post and optionally replies to a top-level comment.
// Replies never nest deeper than one level: creating a reply to a reply
// reparents it onto the thread's top-level comment.
type Comment struct {
	ID              int64     `db:"id" json:"id"`
	PostID          int64     `db:"post_id" json:"post_id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	Content         string    `db:"content" json:"content"`
	ParentCommentID *int64    `db:"parent_comment_id" json:"parent_comment_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
	IsDeleted       bool      `db:"is_deleted" json:"-"`

	Author  *UserSummary `json:"author,omitempty"`
	Replies []Comment    `json:"replies,omitempty"`
}

// CreateCommentRequest is the request body for POST /posts/{id}/comments.
type CreateCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest is the request body for PUT /comments/{id}.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CommentListResponse is the threaded comment list for a post: top-level
// comments oldest first, each carrying its replies oldest first.
type CommentListResponse struct {
	Comments []Comment `json:"comments"`
	Count    int       `json:"count"`
}

const (
	MaxCommentContentLength = 500

	// RecentCommentsPerPost is how many newest comments feeds attach per post.
	RecentCommentsPerPost = 3
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
)
