package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pulseboard/internal/model"
)

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	req := &model.RegisterRequest{
		Username:        "testuser",
		Email:           "Test@Example.COM",
		Password:        "securepassword123",
		PasswordConfirm: "securepassword123",
	}

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.Username != "testuser" {
		t.Errorf("username = %q, want %q", user.Username, "testuser")
	}
	if user.Email != "test@example.com" {
		t.Errorf("email = %q, want lowercased %q", user.Email, "test@example.com")
	}

	// The stored credential must be a bcrypt hash of the password
	if user.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Errorf("stored hash does not verify against the password: %v", err)
	}

	if len(mockRepo.createCalls) != 1 {
		t.Errorf("expected 1 create call, got %d", len(mockRepo.createCalls))
	}
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.ErrUsernameExists
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username:        "taken",
		Email:           "taken@example.com",
		Password:        "securepassword123",
		PasswordConfirm: "securepassword123",
	})

	if err != model.ErrUsernameExists {
		t.Errorf("expected ErrUsernameExists, got: %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	mockRepo := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			if username != "alice" {
				return nil, model.ErrUserNotFound
			}
			return &model.User{ID: 1, Username: "alice", PasswordHashed: string(hash)}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"success", "alice", "correct-password", nil},
		{"wrong password", "alice", "wrong-password", model.ErrInvalidCredentials},
		{"unknown user", "nobody", "correct-password", model.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Login(context.Background(), &model.LoginRequest{
				Username: tt.username,
				Password: tt.password,
			})
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && user.Username != tt.username {
				t.Errorf("username = %q, want %q", user.Username, tt.username)
			}
		})
	}
}

func TestUserService_UpdateProfile_BioTooLong(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, &mockFollowRepository{})

	bio := strings.Repeat("x", model.MaxBioLength+1)
	_, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{Bio: &bio})

	if err != model.ErrBioTooLong {
		t.Errorf("expected ErrBioTooLong, got: %v", err)
	}

	// The bound counts characters, so a multibyte bio at the limit passes.
	mockRepo := &mockUserRepository{
		updateProfileFn: func(ctx context.Context, id int64, bio, picture *string) (*model.User, error) {
			return &model.User{ID: id, Bio: bio}, nil
		},
	}
	svc = NewUserService(mockRepo, &mockFollowRepository{})
	multibyte := strings.Repeat("é", model.MaxBioLength)
	if _, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{Bio: &multibyte}); err != nil {
		t.Errorf("multibyte bio at the character limit must succeed, got: %v", err)
	}
}

func TestUserService_GetProfile_FollowFlags(t *testing.T) {
	mockUsers := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 2, Username: username}, nil
		},
	}
	mockFollows := &mockFollowRepository{
		existsFn: func(ctx context.Context, followerID, followingID int64) (bool, error) {
			// viewer 1 follows 2, and 2 follows 1 back
			return true, nil
		},
	}
	svc := NewUserService(mockUsers, mockFollows)

	viewerID := int64(1)
	profile, err := svc.GetProfile(context.Background(), "bob", &viewerID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !profile.IsFollowing {
		t.Error("expected IsFollowing to be true")
	}
	if !profile.FollowsYou {
		t.Error("expected FollowsYou to be true")
	}
}

func TestUserService_GetProfile_SelfSkipsFollowChecks(t *testing.T) {
	mockUsers := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 1, Username: username}, nil
		},
	}
	called := false
	mockFollows := &mockFollowRepository{
		existsFn: func(ctx context.Context, followerID, followingID int64) (bool, error) {
			called = true
			return true, nil
		},
	}
	svc := NewUserService(mockUsers, mockFollows)

	viewerID := int64(1)
	profile, err := svc.GetProfile(context.Background(), "alice", &viewerID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if called {
		t.Error("follow check should be skipped when viewing own profile")
	}
	if profile.IsFollowing || profile.FollowsYou {
		t.Error("self profile must not carry follow flags")
	}
}

func TestUserService_Search_EnrichesFollowStatus(t *testing.T) {
	mockUsers := &mockUserRepository{
		searchFn: func(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
			return []model.UserSummary{
				{ID: 2, Username: "bob"},
				{ID: 3, Username: "bobby"},
			}, nil
		},
	}
	mockFollows := &mockFollowRepository{
		checkFollowsFn: func(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{2: true, 3: false}, nil
		},
		checkFollowedFn: func(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{2: false, 3: true}, nil
		},
	}
	svc := NewUserService(mockUsers, mockFollows)

	viewerID := int64(1)
	users, err := svc.Search(context.Background(), "bob", 20, &viewerID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !users[0].IsFollowing || users[0].FollowsYou {
		t.Errorf("user 2 flags = (%v, %v), want (true, false)", users[0].IsFollowing, users[0].FollowsYou)
	}
	if users[1].IsFollowing || !users[1].FollowsYou {
		t.Errorf("user 3 flags = (%v, %v), want (false, true)", users[1].IsFollowing, users[1].FollowsYou)
	}
}
