package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulseboard/internal/model"
)

const commentSelectColumns = `
	c.id, c.post_id, c.user_id, c.content, c.parent_comment_id, c.is_deleted, c.created_at, c.updated_at,
	u.id AS "author.id", u.username AS "author.username", u.profile_picture AS "author.profile_picture"`

type commentRow struct {
	ID              int64     `db:"id"`
	PostID          int64     `db:"post_id"`
	UserID          int64     `db:"user_id"`
	Content         string    `db:"content"`
	ParentCommentID *int64    `db:"parent_comment_id"`
	IsDeleted       bool      `db:"is_deleted"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	AuthorID        int64     `db:"author.id"`
	AuthorName      string    `db:"author.username"`
	AuthorPicture   *string   `db:"author.profile_picture"`
}

func (row commentRow) toComment() model.Comment {
	return model.Comment{
		ID:              row.ID,
		PostID:          row.PostID,
		UserID:          row.UserID,
		Content:         row.Content,
		ParentCommentID: row.ParentCommentID,
		IsDeleted:       row.IsDeleted,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Author: &model.UserSummary{
			ID:             row.AuthorID,
			Username:       row.AuthorName,
			ProfilePicture: row.AuthorPicture,
		},
	}
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, postID, userID int64, content string, parentCommentID *int64) (*model.Comment, error) {
	query := `
		INSERT INTO comments (post_id, user_id, content, parent_comment_id, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		RETURNING id, post_id, user_id, content, parent_comment_id, is_deleted, created_at, updated_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, postID, userID, content, parentCommentID)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1 AND c.is_deleted = FALSE
	`, commentSelectColumns)

	var row commentRow
	err := r.db.GetContext(ctx, &row, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	comment := row.toComment()
	return &comment, nil
}

// GetByIDAny fetches a comment regardless of deletion state. A zero-row
// Update or SoftDelete needs it to tell a foreign live comment apart from a
// deleted one.
func (r *commentRepository) GetByIDAny(ctx context.Context, commentID int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, `
		SELECT id, post_id, user_id, content, parent_comment_id, is_deleted, created_at, updated_at
		FROM comments WHERE id = $1
	`, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE comments SET content = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND is_deleted = FALSE
	`, content, commentID, userID)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, model.ErrCommentNotFound
	}
	return r.GetByID(ctx, commentID)
}

func (r *commentRepository) SoftDelete(ctx context.Context, commentID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE comments SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE
	`, commentID, userID)
	if err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) ListTopLevelByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1 AND c.parent_comment_id IS NULL AND c.is_deleted = FALSE
		ORDER BY c.created_at ASC, c.id ASC
	`, commentSelectColumns)

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}

func (r *commentRepository) ListRepliesByParents(ctx context.Context, parentIDs []int64) (map[int64][]model.Comment, error) {
	replies := make(map[int64][]model.Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return replies, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.parent_comment_id = ANY($1) AND c.is_deleted = FALSE
		ORDER BY c.created_at ASC, c.id ASC
	`, commentSelectColumns)

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(parentIDs))
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	for _, row := range rows {
		parent := *row.ParentCommentID
		replies[parent] = append(replies[parent], row.toComment())
	}
	return replies, nil
}

// ListRecentByPosts returns the newest perPost live comments for each post,
// newest first, in one query.
func (r *commentRepository) ListRecentByPosts(ctx context.Context, postIDs []int64, perPost int) (map[int64][]model.Comment, error) {
	recent := make(map[int64][]model.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return recent, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT c.*, ROW_NUMBER() OVER (PARTITION BY c.post_id ORDER BY c.created_at DESC, c.id DESC) AS rn
			FROM comments c
			WHERE c.post_id = ANY($1) AND c.is_deleted = FALSE
		) c
		JOIN users u ON u.id = c.user_id
		WHERE c.rn <= $2
		ORDER BY c.post_id, c.created_at DESC, c.id DESC
	`, commentSelectColumns)

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs), perPost)
	if err != nil {
		return nil, fmt.Errorf("list recent comments: %w", err)
	}

	for _, row := range rows {
		recent[row.PostID] = append(recent[row.PostID], row.toComment())
	}
	return recent, nil
}
