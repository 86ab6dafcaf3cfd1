package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/JoseCristhianRG/RecetApp/internal/storage"
	"github.com/JoseCristhianRG/RecetApp/pkg/httputil"
	"github.com/JoseCristhianRG/RecetApp/pkg/middleware"
)

// allowedImageTypes maps accepted upload content types to file extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// MediaHandler handles recipe image uploads.
type MediaHandler struct {
	storage       storage.Storage
	maxUploadSize int64
	logger        *slog.Logger
}

// NewMediaHandler creates a new media HTTP handler. maxUploadSizeMB bounds
// the accepted upload body size.
func NewMediaHandler(st storage.Storage, maxUploadSizeMB int, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		storage:       st,
		maxUploadSize: int64(maxUploadSizeMB) << 20,
		logger:        logger,
	}
}

// Upload handles POST /api/v1/media
// Accepts a multipart form with a single "file" field holding a JPEG, PNG,
// or WebP image.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: fmt.Sprintf("upload must be multipart form data under %dMB", h.maxUploadSize>>20)},
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "missing file field"},
		})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "only JPEG, PNG, and WebP images are accepted"},
		})
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	key := path.Join("recipes", userID, uuid.New().String()+ext)

	result, err := h.storage.Upload(r.Context(), &storage.UploadInput{
		Key:         key,
		ContentType: contentType,
		Size:        header.Size,
		Data:        file,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.logger.InfoContext(r.Context(), "media uploaded",
		slog.String("key", result.Key),
		slog.String("user_id", userID),
		slog.Int64("size", header.Size),
		slog.String("content_type", contentType),
	)

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// Delete handles DELETE /api/v1/media/{key}
// Users can only delete media under their own prefix.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/v1/media/")
	if key == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "media key is required"},
		})
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if !strings.HasPrefix(key, path.Join("recipes", userID)+"/") {
		httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "FORBIDDEN", Message: "cannot delete media owned by another user"},
		})
		return
	}

	if err := h.storage.Delete(r.Context(), key); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
