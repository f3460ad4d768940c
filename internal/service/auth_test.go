package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pulseboard/internal/config"
	"pulseboard/internal/model"
)

func authConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 2592000,
	}
}

func TestAuthService_GenerateTokenPair_StoresHash(t *testing.T) {
	var stored *model.RefreshToken
	repo := &mockRefreshTokenRepository{
		createFn: func(ctx context.Context, token *model.RefreshToken) error {
			stored = token
			token.ID = "token-1"
			return nil
		},
	}
	svc := NewAuthService(repo, authConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), 1, "test-agent", "203.0.113.9")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if stored == nil {
		t.Fatal("expected a refresh token to be persisted")
	}
	if stored.TokenHash == pair.RefreshToken {
		t.Error("raw refresh token must not be stored")
	}
	if stored.TokenHash != svc.hashToken(pair.RefreshToken) {
		t.Error("stored hash does not match the issued token")
	}
	if stored.DeviceInfo == nil || *stored.DeviceInfo != "test-agent" {
		t.Errorf("device info = %v, want test-agent", stored.DeviceInfo)
	}
	if pair.ExpiresIn != 900 {
		t.Errorf("expires_in = %d, want 900", pair.ExpiresIn)
	}
}

func TestAuthService_AccessTokenClaims(t *testing.T) {
	svc := NewAuthService(&mockRefreshTokenRepository{}, authConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), 42, "", "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token did not verify: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if userID, ok := claims["user_id"].(float64); !ok || int64(userID) != 42 {
		t.Errorf("user_id claim = %v, want 42", claims["user_id"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("access token missing exp claim")
	}
}

func TestAuthService_RefreshTokens_Rotation(t *testing.T) {
	now := time.Now()
	repo := &mockRefreshTokenRepository{}
	svc := NewAuthService(repo, authConfig())

	oldHash := svc.hashToken("old-raw")
	var newHash string
	repo.createFn = func(ctx context.Context, token *model.RefreshToken) error {
		token.ID = "token-new"
		newHash = token.TokenHash
		return nil
	}
	repo.findByHashFn = func(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
		switch tokenHash {
		case oldHash:
			return &model.RefreshToken{ID: "token-old", UserID: 1, TokenHash: oldHash, ExpiresAt: now.Add(time.Hour)}, nil
		case newHash:
			return &model.RefreshToken{ID: "token-new", UserID: 1, TokenHash: newHash, ExpiresAt: now.Add(time.Hour)}, nil
		}
		return nil, model.ErrRefreshTokenNotFound
	}

	pair, userID, err := svc.RefreshTokens(context.Background(), "old-raw", "", "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if userID != 1 {
		t.Errorf("user id = %d, want 1", userID)
	}
	if pair.RefreshToken == "old-raw" {
		t.Error("rotation must issue a new refresh token")
	}
	if len(repo.revokedIDs) != 1 || repo.revokedIDs[0] != "token-old" {
		t.Errorf("revoked ids = %v, want [token-old]", repo.revokedIDs)
	}
}

func TestAuthService_RefreshTokens_ReuseRevokesFamily(t *testing.T) {
	now := time.Now()
	revokedAt := now.Add(-time.Minute)
	repo := &mockRefreshTokenRepository{
		findByHashFn: func(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
			return &model.RefreshToken{
				ID:        "token-old",
				UserID:    1,
				TokenHash: tokenHash,
				ExpiresAt: now.Add(time.Hour),
				RevokedAt: &revokedAt,
			}, nil
		},
	}
	svc := NewAuthService(repo, authConfig())

	_, _, err := svc.RefreshTokens(context.Background(), "stolen-raw", "", "")
	if !errors.Is(err, model.ErrRefreshTokenReused) {
		t.Fatalf("expected ErrRefreshTokenReused, got: %v", err)
	}
	if len(repo.revokeAllForUsers) != 1 || repo.revokeAllForUsers[0] != 1 {
		t.Errorf("revoked families = %v, want [1]", repo.revokeAllForUsers)
	}
}

func TestAuthService_RefreshTokens_Expired(t *testing.T) {
	repo := &mockRefreshTokenRepository{
		findByHashFn: func(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
			return &model.RefreshToken{
				ID:        "token-old",
				UserID:    1,
				TokenHash: tokenHash,
				ExpiresAt: time.Now().Add(-time.Hour),
			}, nil
		},
	}
	svc := NewAuthService(repo, authConfig())

	_, _, err := svc.RefreshTokens(context.Background(), "stale-raw", "", "")
	if !errors.Is(err, model.ErrRefreshTokenExpired) {
		t.Fatalf("expected ErrRefreshTokenExpired, got: %v", err)
	}
	if len(repo.revokeAllForUsers) != 0 {
		t.Errorf("expiry must not revoke the family")
	}
}

func TestAuthService_RefreshTokens_Unknown(t *testing.T) {
	svc := NewAuthService(&mockRefreshTokenRepository{}, authConfig())

	_, _, err := svc.RefreshTokens(context.Background(), "never-issued", "", "")
	if !errors.Is(err, model.ErrRefreshTokenNotFound) {
		t.Errorf("expected ErrRefreshTokenNotFound, got: %v", err)
	}
}

func TestAuthService_CleanupExpiredTokens(t *testing.T) {
	var gotRetention time.Duration
	repo := &mockRefreshTokenRepository{
		deleteExpiredFn: func(ctx context.Context, olderThan time.Duration) (int64, error) {
			gotRetention = olderThan
			return 7, nil
		},
	}
	svc := NewAuthService(repo, authConfig())

	deleted, err := svc.CleanupExpiredTokens(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if deleted != 7 {
		t.Errorf("deleted = %d, want 7", deleted)
	}
	want := 2592000 * time.Second
	if gotRetention != want {
		t.Errorf("retention = %v, want %v", gotRetention, want)
	}
}

func TestAuthService_RevokeRefreshToken(t *testing.T) {
	repo := &mockRefreshTokenRepository{
		findByHashFn: func(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
			return &model.RefreshToken{ID: "token-1", UserID: 1, TokenHash: tokenHash, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	svc := NewAuthService(repo, authConfig())

	if err := svc.RevokeRefreshToken(context.Background(), "raw"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.revokedIDs) != 1 || repo.revokedIDs[0] != "token-1" {
		t.Errorf("revoked ids = %v, want [token-1]", repo.revokedIDs)
	}
}
