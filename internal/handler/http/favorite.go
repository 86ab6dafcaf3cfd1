package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JoseCristhianRG/RecetApp/internal/service"
	"github.com/JoseCristhianRG/RecetApp/pkg/httputil"
	"github.com/JoseCristhianRG/RecetApp/pkg/middleware"
)

// FavoriteHandler handles HTTP requests for favorite endpoints.
type FavoriteHandler struct {
	service *service.FavoriteService
	logger  *slog.Logger
}

// NewFavoriteHandler creates a new favorite HTTP handler.
func NewFavoriteHandler(svc *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: svc,
		logger:  logger,
	}
}

// AddFavorite handles PUT /api/v1/users/me/favorites/{recipeID}
// Idempotent; favoriting an already favorited recipe succeeds.
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := httputil.ParseUUID(w, chi.URLParam(r, "recipeID"))
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.Add(r.Context(), userID, recipeID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /api/v1/users/me/favorites/{recipeID}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := httputil.ParseUUID(w, chi.URLParam(r, "recipeID"))
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.Remove(r.Context(), userID, recipeID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFavorites handles GET /api/v1/users/me/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	var limit, offset int
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "limit must be a valid integer between 1 and 100"},
			})
			return
		}
		limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "offset must be a non-negative integer"},
			})
			return
		}
		offset = n
	}

	userID := middleware.UserIDFromContext(r.Context())

	recipes, total, err := h.service.List(r.Context(), userID, limit, offset)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if limit == 0 {
		limit = 20
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(recipes, total, limit, offset))
}

// CheckFavorite handles GET /api/v1/users/me/favorites/{recipeID}
func (h *FavoriteHandler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := httputil.ParseUUID(w, chi.URLParam(r, "recipeID"))
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	exists, err := h.service.IsFavorite(r.Context(), userID, recipeID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"is_favorite": exists}})
}
