package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulseboard/internal/model"
)

type notificationRow struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	ActorID      int64     `db:"actor_id"`
	Kind         string    `db:"kind"`
	Message      string    `db:"message"`
	PostID       *int64    `db:"post_id"`
	CommentID    *int64    `db:"comment_id"`
	IsRead       bool      `db:"is_read"`
	CreatedAt    time.Time `db:"created_at"`
	ActorName    string    `db:"actor.username"`
	ActorPicture *string   `db:"actor.profile_picture"`
}

func (row notificationRow) toNotification() model.Notification {
	return model.Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		ActorID:   row.ActorID,
		Kind:      row.Kind,
		Message:   row.Message,
		PostID:    row.PostID,
		CommentID: row.CommentID,
		IsRead:    row.IsRead,
		CreatedAt: row.CreatedAt,
		Actor: &model.UserSummary{
			ID:             row.ActorID,
			Username:       row.ActorName,
			ProfilePicture: row.ActorPicture,
		},
	}
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, actor_id, kind, message, post_id, comment_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		n.UserID, n.ActorID, n.Kind, n.Message, n.PostID, n.CommentID,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.actor_id, n.kind, n.message, n.post_id, n.comment_id, n.is_read, n.created_at,
		       u.username AS "actor.username", u.profile_picture AS "actor.profile_picture"
		FROM notifications n
		JOIN users u ON u.id = n.actor_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT $2
	`
	var rows []notificationRow
	err := r.db.SelectContext(ctx, &rows, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = row.toNotification()
	}
	return notifications, nil
}

// Counts reports totals over the user's whole notification set, not just the
// returned page.
func (r *notificationRepository) Counts(ctx context.Context, userID int64) (total int, unread int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_read = FALSE)
		FROM notifications WHERE user_id = $1
	`
	err = r.db.QueryRowContext(ctx, query, userID).Scan(&total, &unread)
	if err != nil {
		return 0, 0, fmt.Errorf("count notifications: %w", err)
	}
	return total, unread, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkReadByIDs(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND id = ANY($2)`,
		userID, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
