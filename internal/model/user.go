package model

import (
	"errors"
	"time"
)

// User represents a registered account. Follower/following/post counts are
// never stored on the row; repositories compute them as aggregates on read.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	Bio            *string   `db:"bio" json:"bio"`
	ProfilePicture *string   `db:"profile_picture" json:"profile_picture"`
	FollowersCount int       `db:"followers_count" json:"followers_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	PostsCount     int       `db:"posts_count" json:"posts_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the compact user representation embedded in posts,
// comments, follower lists and notifications.
type UserSummary struct {
	ID             int64   `db:"id" json:"id"`
	Username       string  `db:"username" json:"username"`
	ProfilePicture *string `db:"profile_picture" json:"profile_picture"`
	IsFollowing    bool    `json:"is_following"`
	FollowsYou     bool    `json:"follows_you"`
}

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the request body for PUT /me.
// Only bio and profile picture are mutable; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

// ProfileResponse is a user profile annotated with the viewer's
// relationship to the profiled user.
type ProfileResponse struct {
	*User
	IsFollowing bool `json:"is_following"`
	FollowsYou  bool `json:"follows_you"`
}

const MaxBioLength = 500

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to register a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when attempting to register a taken email
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrBioTooLong = errors.New("bio too long")
)
