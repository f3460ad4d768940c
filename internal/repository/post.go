package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pulseboard/internal/model"
)

// Column list shared by the post readers. Like/comment counts are computed
// per read (comments filtered on is_deleted) so mutations can never leave a
// stale counter behind.
const postSelectColumns = `
	p.id, p.user_id, p.content, p.image, p.created_at, p.updated_at, p.is_deleted,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND c.is_deleted = FALSE) AS comments_count,
	u.id AS "author.id", u.username AS "author.username", u.profile_picture AS "author.profile_picture"`

// postRow scans a post joined with its author summary.
type postRow struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	Content       string    `db:"content"`
	Image         *string   `db:"image"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	IsDeleted     bool      `db:"is_deleted"`
	LikesCount    int       `db:"likes_count"`
	CommentsCount int       `db:"comments_count"`
	AuthorID      int64     `db:"author.id"`
	AuthorName    string    `db:"author.username"`
	AuthorPicture *string   `db:"author.profile_picture"`
}

func (row postRow) toPost() model.Post {
	return model.Post{
		ID:            row.ID,
		UserID:        row.UserID,
		Content:       row.Content,
		Image:         row.Image,
		LikesCount:    row.LikesCount,
		CommentsCount: row.CommentsCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		IsDeleted:     row.IsDeleted,
		Author: &model.UserSummary{
			ID:             row.AuthorID,
			Username:       row.AuthorName,
			ProfilePicture: row.AuthorPicture,
		},
	}
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, userID int64, content string, image *string) (*model.Post, error) {
	query := `
		INSERT INTO posts (user_id, content, image, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING id, user_id, content, image, created_at, updated_at, is_deleted
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, userID, content, image)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1 AND p.is_deleted = FALSE
	`, postSelectColumns)

	var row postRow
	err := r.db.GetContext(ctx, &row, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	post := row.toPost()
	return &post, nil
}

// Update mutates content/image for the owner's live post. Zero rows means
// either the post is gone (or soft-deleted) or it belongs to someone else;
// a follow-up existence check picks the right error.
func (r *postRepository) Update(ctx context.Context, postID, userID int64, content, image *string) (*model.Post, error) {
	query := `
		UPDATE posts
		SET content = COALESCE($1, content),
		    image = COALESCE($2, image),
		    updated_at = NOW()
		WHERE id = $3 AND user_id = $4 AND is_deleted = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, content, image, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND is_deleted = FALSE)`, postID)
		if exists {
			return nil, model.ErrNotPostOwner
		}
		return nil, model.ErrPostNotFound
	}
	return r.GetByID(ctx, postID)
}

func (r *postRepository) SoftDelete(ctx context.Context, postID, userID int64) error {
	query := `
		UPDATE posts SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return fmt.Errorf("soft delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND is_deleted = FALSE)`, postID)
		if exists {
			return model.ErrNotPostOwner
		}
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1 AND p.is_deleted = FALSE
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, postSelectColumns)

	var rows []postRow
	err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts by user: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}
	return posts, nil
}

func (r *postRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM posts WHERE user_id = $1 AND is_deleted = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("count posts by user: %w", err)
	}
	return count, nil
}

// buildFeedWhere translates a FeedQuery into a WHERE clause. Conditions are
// appended with sequential placeholders so the same builder serves both the
// page query and the count query.
func buildFeedWhere(q model.FeedQuery) (string, []interface{}) {
	conditions := []string{"p.is_deleted = FALSE"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.PersonalFor != nil {
		p := arg(*q.PersonalFor)
		conditions = append(conditions, fmt.Sprintf(
			"(p.user_id = %s OR p.user_id IN (SELECT following_id FROM follows WHERE follower_id = %s))", p, p))
	}
	if q.Filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("p.created_at >= %s", arg(*q.Filters.DateFrom)))
	}
	if q.Filters.DateTo != nil {
		// Inclusive calendar bound: anything before the start of the next day.
		conditions = append(conditions, fmt.Sprintf("p.created_at < %s", arg(q.Filters.DateTo.AddDate(0, 0, 1))))
	}
	if q.Filters.Username != "" {
		conditions = append(conditions, fmt.Sprintf("u.username = %s", arg(q.Filters.Username)))
	}
	if q.Filters.Content != "" {
		conditions = append(conditions, fmt.Sprintf("p.content ILIKE '%%' || %s || '%%'", arg(q.Filters.Content)))
	}

	return strings.Join(conditions, " AND "), args
}

func (r *postRepository) ListFeed(ctx context.Context, q model.FeedQuery) ([]model.Post, error) {
	where, args := buildFeedWhere(q)
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE %s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, postSelectColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	var rows []postRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}
	return posts, nil
}

func (r *postRepository) CountFeed(ctx context.Context, q model.FeedQuery) (int, error) {
	where, args := buildFeedWhere(q)
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE %s
	`, where)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("count feed: %w", err)
	}
	return count, nil
}
