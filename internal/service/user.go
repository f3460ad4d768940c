package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"pulseboard/internal/model"
	"pulseboard/internal/repository"
)

// UserService handles registration, login and profile operations.
type UserService struct {
	repo       repository.UserRepository
	followRepo repository.FollowRepository
}

func NewUserService(repo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{
		repo:       repo,
		followRepo: followRepo,
	}
}

// Register creates a new user account. Uniqueness of username and email is
// enforced by the database; a racing duplicate surfaces as
// ErrUsernameExists / ErrEmailExists from the repository.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHashed: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user with username and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Don't reveal whether the username exists
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile retrieves a profile by username, annotated with the viewer's
// relationship in both directions. The follow checks are best-effort: a
// failure there degrades to false rather than blocking the profile.
func (s *UserService) GetProfile(ctx context.Context, username string, viewerID *int64) (*model.ProfileResponse, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile := &model.ProfileResponse{User: user}

	if viewerID != nil && *viewerID != user.ID {
		if isFollowing, err := s.followRepo.Exists(ctx, *viewerID, user.ID); err == nil {
			profile.IsFollowing = isFollowing
		}
		if followsYou, err := s.followRepo.Exists(ctx, user.ID, *viewerID); err == nil {
			profile.FollowsYou = followsYou
		}
	}

	return profile, nil
}

// UpdateProfile updates the caller's bio and/or profile picture. Nil fields
// are left unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	if req.Bio != nil && utf8.RuneCountInString(*req.Bio) > model.MaxBioLength {
		return nil, model.ErrBioTooLong
	}
	return s.repo.UpdateProfile(ctx, userID, req.Bio, req.ProfilePicture)
}

// Search finds users by username substring, enriched with follow status in
// both directions for the viewer. Batch ANY($1) queries keep this at two
// extra round trips regardless of result size.
func (s *UserService) Search(ctx context.Context, query string, limit int, viewerID *int64) ([]model.UserSummary, error) {
	users, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if viewerID != nil && len(users) > 0 {
		userIDs := make([]int64, len(users))
		for i, user := range users {
			userIDs[i] = user.ID
		}

		following, err := s.followRepo.CheckFollows(ctx, *viewerID, userIDs)
		if err != nil {
			log.Printf("[UserService] Failed to check follow status: %v", err)
			return users, nil
		}
		followedBy, err := s.followRepo.CheckFollowedBy(ctx, *viewerID, userIDs)
		if err != nil {
			log.Printf("[UserService] Failed to check followed-by status: %v", err)
		}

		for i := range users {
			users[i].IsFollowing = following[users[i].ID]
			if followedBy != nil {
				users[i].FollowsYou = followedBy[users[i].ID]
			}
		}
	}

	return users, nil
}
