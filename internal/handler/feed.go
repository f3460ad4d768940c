package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"pulseboard/internal/httputil"
	"pulseboard/internal/model"
	"pulseboard/internal/service"
	"pulseboard/internal/transport/http/middleware"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

const filterDateLayout = "2006-01-02"

// parseFeedFilters reads the optional filter query parameters. Dates use
// YYYY-MM-DD and bound created_at inclusively.
func parseFeedFilters(r *http.Request) (model.FeedFilters, error) {
	var filters model.FeedFilters
	q := r.URL.Query()

	if raw := q.Get("date_from"); raw != "" {
		t, err := time.Parse(filterDateLayout, raw)
		if err != nil {
			return filters, errors.New("date_from must be YYYY-MM-DD")
		}
		filters.DateFrom = &t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := time.Parse(filterDateLayout, raw)
		if err != nil {
			return filters, errors.New("date_to must be YYYY-MM-DD")
		}
		filters.DateTo = &t
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return filters, errors.New("date_to must not precede date_from")
	}

	filters.Username = strings.TrimSpace(q.Get("username"))
	filters.Content = strings.TrimSpace(q.Get("content"))

	return filters, nil
}

// Personal handles GET /feed
func (h *FeedHandler) Personal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page, ok := parsePage(r)
	if !ok {
		httputil.WriteInvalidPage(w)
		return
	}
	pageSize, ok := parsePageSize(r)
	if !ok {
		httputil.WriteBadRequest(w, "Invalid page_size")
		return
	}

	filters, err := parseFeedFilters(r)
	if err != nil {
		httputil.WriteValidationError(w, err.Error())
		return
	}

	resp, err := h.feedService.Personal(r.Context(), userID, page, pageSize, filters)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPage) {
			httputil.WriteInvalidPage(w)
			return
		}
		log.Printf("[ERROR] Personal feed handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Global handles GET /feed/global
func (h *FeedHandler) Global(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(r)
	if !ok {
		httputil.WriteInvalidPage(w)
		return
	}
	pageSize, ok := parsePageSize(r)
	if !ok {
		httputil.WriteBadRequest(w, "Invalid page_size")
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	resp, err := h.feedService.Global(r.Context(), viewerID, page, pageSize)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPage) {
			httputil.WriteInvalidPage(w)
			return
		}
		log.Printf("[ERROR] Global feed handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to load feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
