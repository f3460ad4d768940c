package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulseboard/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the edge. ON CONFLICT DO NOTHING makes the unique
// constraint the source of truth for duplicates: two racing requests both
// reach the insert, exactly one affects a row.
func (r *followRepository) Create(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("insert follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFollowing
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("check follow existence: %w", err)
	}
	return exists, nil
}

// ListFollowers returns users following userID in edge-creation order,
// most recent first.
func (r *followRepository) ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.profile_picture
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC, f.follower_id DESC
		LIMIT $2 OFFSET $3
	`
	users := []model.UserSummary{}
	err := r.db.SelectContext(ctx, &users, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return users, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.profile_picture
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC, f.following_id DESC
		LIMIT $2 OFFSET $3
	`
	users := []model.UserSummary{}
	err := r.db.SelectContext(ctx, &users, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("count following: %w", err)
	}
	return count, nil
}

// CheckFollows batch-checks which of userIDs the viewer follows. One query
// with ANY($2), not N.
func (r *followRepository) CheckFollows(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error) {
	if len(userIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := `SELECT following_id FROM follows WHERE follower_id = $1 AND following_id = ANY($2)`
	var followedIDs []int64
	err := r.db.SelectContext(ctx, &followedIDs, query, viewerID, pq.Array(userIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check follows: %w", err)
	}

	result := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		result[id] = false
	}
	for _, id := range followedIDs {
		result[id] = true
	}
	return result, nil
}

// CheckFollowedBy batch-checks which of userIDs follow the viewer.
func (r *followRepository) CheckFollowedBy(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error) {
	if len(userIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := `SELECT follower_id FROM follows WHERE following_id = $1 AND follower_id = ANY($2)`
	var followerIDs []int64
	err := r.db.SelectContext(ctx, &followerIDs, query, viewerID, pq.Array(userIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check followed by: %w", err)
	}

	result := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		result[id] = false
	}
	for _, id := range followerIDs {
		result[id] = true
	}
	return result, nil
}
