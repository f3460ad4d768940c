package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/httputil"
	"pulseboard/internal/model"
	"pulseboard/internal/service"
	"pulseboard/internal/transport/http/middleware"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

// UploadImage handles POST /media/images
// Accepts a multipart form with an "image" field, normalizes the image and
// returns its public URL. Auth is required; the URL is then attached to a
// post or profile via the regular JSON endpoints.
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxImageSizeBytes) + 1024*1024 // form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	upload, err := h.mediaService.UploadImage(r.Context(), userID, file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			httputil.WriteInternalError(w, "Failed to upload image")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, upload)
}

// DeleteImage handles DELETE /media/images/{key}
// {key} is the object file name issued at upload time, without the folder
// prefix. Only the uploader may delete it.
func (h *MediaHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	key := chi.URLParam(r, "key")
	if !validMediaKey(key) {
		httputil.WriteBadRequest(w, "Invalid media key")
		return
	}

	err := h.mediaService.DeleteImage(r.Context(), model.ImageFolder+"/"+key, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMediaNotFound):
			httputil.WriteNotFound(w, "Image not found")
		case errors.Is(err, model.ErrNotMediaOwner):
			httputil.WriteForbidden(w, "You can only delete your own uploads")
		default:
			log.Printf("[ERROR] Delete image handler: user=%d key=%s err=%v", userID, key, err)
			httputil.WriteInternalError(w, "Failed to delete image")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// validMediaKey accepts only the flat file names UploadImage issues, keeping
// path separators and traversal sequences out of the bucket key.
func validMediaKey(key string) bool {
	if key == "" || len(key) > 100 {
		return false
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return false
	}
	return strings.HasSuffix(key, model.ImageExt)
}
