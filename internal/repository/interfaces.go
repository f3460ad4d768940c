package repository

import (
	"context"
	"time"

	"pulseboard/internal/model"
)

type UserRepository interface {
	// Create inserts the user; unique violations on username/email come back
	// as ErrUsernameExists / ErrEmailExists.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// UpdateProfile sets bio and/or profile picture; nil fields are unchanged.
	UpdateProfile(ctx context.Context, id int64, bio, picture *string) (*model.User, error)
	Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type FollowRepository interface {
	// Create inserts the edge with ON CONFLICT DO NOTHING and reports whether
	// a row was actually inserted. The zero-row case is the authoritative
	// duplicate signal; any prior existence check is advisory only.
	Create(ctx context.Context, followerID, followingID int64) (bool, error)
	// Delete removes the edge; zero rows affected means ErrNotFollowing.
	Delete(ctx context.Context, followerID, followingID int64) error
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
	ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error)
	ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
	// CheckFollows reports, per candidate id, whether viewerID follows them.
	CheckFollows(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error)
	// CheckFollowedBy reports, per candidate id, whether they follow viewerID.
	CheckFollowedBy(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, content string, image *string) (*model.Post, error)
	// GetByID excludes soft-deleted rows unconditionally.
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// Update mutates content/image (nil = unchanged) and refreshes
	// updated_at; only the owner's update affects a row.
	Update(ctx context.Context, postID, userID int64, content, image *string) (*model.Post, error)
	// SoftDelete flips is_deleted; a re-delete finds no live row and reports
	// ErrPostNotFound.
	SoftDelete(ctx context.Context, postID, userID int64) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	ListFeed(ctx context.Context, q model.FeedQuery) ([]model.Post, error)
	CountFeed(ctx context.Context, q model.FeedQuery) (int, error)
}

type LikeRepository interface {
	// Create inserts the like; a unique violation comes back as
	// ErrAlreadyLiked even when it raced past an existence check.
	Create(ctx context.Context, postID, userID int64) (*model.Like, error)
	// Delete removes the like; zero rows affected means ErrNotLiked.
	Delete(ctx context.Context, postID, userID int64) error
	// CheckLikes reports which of the given posts userID has liked.
	CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, postID, userID int64, content string, parentID *int64) (*model.Comment, error)
	// GetByID excludes soft-deleted comments.
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// GetByIDAny also returns soft-deleted comments (direct-by-id access).
	GetByIDAny(ctx context.Context, commentID int64) (*model.Comment, error)
	Update(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error)
	SoftDelete(ctx context.Context, commentID, userID int64) error
	// ListTopLevelByPost returns non-deleted parentless comments, oldest
	// first, with author summaries joined.
	ListTopLevelByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	// ListRepliesByParents returns non-deleted replies grouped by parent,
	// oldest first within each group.
	ListRepliesByParents(ctx context.Context, parentIDs []int64) (map[int64][]model.Comment, error)
	// ListRecentByPosts returns up to perPost newest non-deleted comments for
	// each post, newest first.
	ListRecentByPosts(ctx context.Context, postIDs []int64, perPost int) (map[int64][]model.Comment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ListRecent returns the newest notifications with actor summaries
	// joined, capped at limit.
	ListRecent(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	// Counts returns total and unread counts over the full set.
	Counts(ctx context.Context, userID int64) (total, unread int, err error)
	// MarkRead flips one notification owned by userID; idempotent. A missing
	// or foreign notification is ErrNotificationNotFound.
	MarkRead(ctx context.Context, notificationID, userID int64) error
	MarkReadByIDs(ctx context.Context, userID int64, ids []int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}
