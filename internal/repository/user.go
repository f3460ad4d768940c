package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulseboard/internal/model"
)

// Column list shared by the user readers. Follower/following/post counts are
// live aggregates so they can never drift from the underlying edges.
const userSelectColumns = `
	u.id, u.username, u.email, u.password_hashed, u.bio, u.profile_picture, u.created_at, u.updated_at,
	(SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id) AS followers_count,
	(SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count,
	(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id AND p.is_deleted = FALSE) AS posts_count`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hashed, bio, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query, u.Username, u.Email, u.PasswordHashed, u.Bio, u.ProfilePicture)
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_email_key":
				return model.ErrEmailExists
			default:
				return model.ErrUsernameExists
			}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.id = $1`, userSelectColumns)

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.username = $1`, userSelectColumns)

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

// UpdateProfile sets bio and/or profile picture. COALESCE leaves a column
// untouched when its argument is NULL, which matches partial updates.
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, bio, picture *string) (*model.User, error) {
	query := `
		UPDATE users
		SET bio = COALESCE($1, bio),
		    profile_picture = COALESCE($2, profile_picture),
		    updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, bio, picture, id)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, model.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	sqlQuery := `
		SELECT id, username, profile_picture
		FROM users
		WHERE username ILIKE '%' || $1 || '%'
		ORDER BY username
		LIMIT $2
	`
	users := []model.UserSummary{}
	err := r.db.SelectContext(ctx, &users, sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}
