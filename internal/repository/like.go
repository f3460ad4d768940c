package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulseboard/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, postID, userID int64) (*model.Like, error) {
	query := `
		INSERT INTO likes (user_id, post_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, user_id, post_id, created_at
	`
	var like model.Like
	err := r.db.GetContext(ctx, &like, query, userID, postID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, model.ErrAlreadyLiked
		}
		return nil, fmt.Errorf("insert like: %w", err)
	}
	return &like, nil
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}
	return nil
}

// CheckLikes reports which of the given posts the user has liked, in one
// round trip. Posts absent from the result map to false.
func (r *likeRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		liked[id] = false
	}
	if len(postIDs) == 0 {
		return liked, nil
	}

	var rows []int64
	err := r.db.SelectContext(ctx, &rows,
		`SELECT post_id FROM likes WHERE user_id = $1 AND post_id = ANY($2)`,
		userID, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("check likes: %w", err)
	}
	for _, id := range rows {
		liked[id] = true
	}
	return liked, nil
}
