package model

import (
	"errors"
	"time"
)

// Notification kinds
const (
	NotificationKindFollow  = "follow"
	NotificationKindLike    = "like"
	NotificationKindComment = "comment"
)

// NotificationPageLimit caps how many notifications a list call returns.
// Unread/total counts still cover the full set.
const NotificationPageLimit = 50

// Notification is created as a side effect of follow/like/comment creation.
// Self-directed actions never produce one.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"` // recipient
	ActorID   int64     `db:"actor_id" json:"actor_id"`
	Kind      string    `db:"kind" json:"kind"` // follow, like, comment
	Message   string    `db:"message" json:"message"`
	PostID    *int64    `db:"post_id" json:"post_id,omitempty"`
	CommentID *int64    `db:"comment_id" json:"comment_id,omitempty"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Actor *UserSummary `json:"actor,omitempty"`
}

// NotificationListResponse is the notification list response. Notifications
// holds at most NotificationPageLimit records; the counts cover everything.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
	TotalCount    int            `json:"total_count"`
}

var ErrNotificationNotFound = errors.New("notification not found")
