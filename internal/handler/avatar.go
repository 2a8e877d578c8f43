package handler

import (
	"log/slog"
	"net/http"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/auth"
	"github.com/baraus/tutorhub/internal/service"
)

// AvatarHandler accepts avatar image uploads.
type AvatarHandler struct {
	avatars *service.AvatarService
	logger  *slog.Logger
}

func NewAvatarHandler(avatars *service.AvatarService, logger *slog.Logger) *AvatarHandler {
	return &AvatarHandler{avatars: avatars, logger: logger}
}

// HandleUpload replaces the authenticated user's avatar.
//
// HTTP: POST /v1/avatar
// BODY: multipart/form-data with one "image" part
//
// MaxBytesReader caps the whole request body, so an oversized upload
// fails during parsing instead of buffering 5 MiB+ in memory first.
func (h *AvatarHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxAvatarBytes+4096)
	if err := r.ParseMultipartForm(service.MaxAvatarBytes); err != nil {
		writeError(w, apperror.ValidationFailed("image", "multipart form with an image up to 5 MiB required"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "image file is required"))
		return
	}
	defer file.Close()

	url, err := h.avatars.Upload(r.Context(), userID, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("avatar upload failed",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"avatar": url})
}
