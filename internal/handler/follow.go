package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/httputil"
	"pulseboard/internal/model"
	"pulseboard/internal/service"
	"pulseboard/internal/transport/http/middleware"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

// Follow handles POST /users/{username}/follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	username := chi.URLParam(r, "username")

	followee, err := h.followService.Follow(r.Context(), userID, username)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrSelfFollow):
			httputil.WriteValidationError(w, "You cannot follow yourself")
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteConflict(w, "Already following this user")
		default:
			log.Printf("[ERROR] Follow handler: user=%d target=%s err=%v", userID, username, err)
			httputil.WriteInternalError(w, "Failed to follow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"following": followee.Username,
	})
}

// Unfollow handles DELETE /users/{username}/follow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	username := chi.URLParam(r, "username")

	err := h.followService.Unfollow(r.Context(), userID, username)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrSelfFollow):
			httputil.WriteValidationError(w, "You cannot unfollow yourself")
		case errors.Is(err, model.ErrNotFollowing):
			httputil.WriteConflict(w, "Not following this user")
		default:
			log.Printf("[ERROR] Unfollow handler: user=%d target=%s err=%v", userID, username, err)
			httputil.WriteInternalError(w, "Failed to unfollow user")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFollowers handles GET /users/{username}/followers
func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.followService.GetFollowers)
}

// GetFollowing handles GET /users/{username}/following
func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.followService.GetFollowing)
}

type followListFunc func(ctx context.Context, username string, page int, viewerID *int64) (*model.FollowListResponse, error)

func (h *FollowHandler) list(w http.ResponseWriter, r *http.Request, fetch followListFunc) {
	username := chi.URLParam(r, "username")

	page, ok := parsePage(r)
	if !ok {
		httputil.WriteInvalidPage(w)
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	resp, err := fetch(r.Context(), username, page, viewerID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrInvalidPage):
			httputil.WriteInvalidPage(w)
		default:
			log.Printf("[ERROR] Follow list handler: username=%s err=%v", username, err)
			httputil.WriteInternalError(w, "Failed to list users")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
