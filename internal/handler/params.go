package handler

import (
	"net/http"
	"strconv"
)

// parsePage reads the "page" query parameter, defaulting to 1. Non-numeric
// or non-positive values report false.
func parsePage(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}

// parsePageSize reads the "page_size" query parameter. Zero means "use the
// endpoint's default"; the services clamp the upper bound.
func parsePageSize(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page_size")
	if raw == "" {
		return 0, true
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 {
		return 0, false
	}
	return size, true
}
