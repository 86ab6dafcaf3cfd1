package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JoseCristhianRG/RecetApp/internal/service"
	"github.com/JoseCristhianRG/RecetApp/pkg/httputil"
	"github.com/JoseCristhianRG/RecetApp/pkg/middleware"
	"github.com/JoseCristhianRG/RecetApp/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ReviewRequest is the JSON request body for creating or updating a review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// --- Handlers ---

// ListReviews handles GET /api/v1/recipes/{id}/reviews
// Without parameters it loads the first page fresh; with more=true it
// appends the next page to the server-side cached view and returns the
// accumulated list.
// @Summary List reviews for a recipe
// @Description Returns the cached review pages for a recipe, newest first
// @Tags reviews
// @Produce json
// @Param id path string true "Recipe UUID"
// @Param more query bool false "Fetch the next page instead of resetting"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/recipes/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var (
		page *service.ReviewPage
		err  error
	)
	if r.URL.Query().Get("more") == "true" {
		page, err = h.service.FetchMoreReviews(r.Context(), id.String())
	} else {
		page, err = h.service.FetchReviews(r.Context(), id.String())
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewCursorResponse(page.Reviews, page.NextCursor, page.HasMore))
}

// CreateReview handles POST /api/v1/recipes/{id}/reviews
// @Summary Review a recipe
// @Description Creates the caller's review for a recipe. One review per user per recipe.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Recipe UUID"
// @Param request body ReviewRequest true "Review to create"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/recipes/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	review, err := h.service.AddReview(r.Context(), id.String(), userID, req.Rating, req.Comment)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// UpdateReview handles PUT /api/v1/recipes/{id}/reviews/{reviewID}
// @Summary Update a review
// @Description Updates the caller's own review
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Recipe UUID"
// @Param reviewID path string true "Review UUID"
// @Param request body ReviewRequest true "New review values"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/recipes/{id}/reviews/{reviewID} [put]
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	reviewID, ok := httputil.ParseUUID(w, chi.URLParam(r, "reviewID"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	review, err := h.service.UpdateReview(r.Context(), reviewID.String(), id.String(), userID, req.Rating, req.Comment)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// DeleteReview handles DELETE /api/v1/recipes/{id}/reviews/{reviewID}
// @Summary Delete a review
// @Description Deletes the caller's own review
// @Tags reviews
// @Param id path string true "Recipe UUID"
// @Param reviewID path string true "Review UUID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/recipes/{id}/reviews/{reviewID} [delete]
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	reviewID, ok := httputil.ParseUUID(w, chi.URLParam(r, "reviewID"))
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.DeleteReview(r.Context(), reviewID.String(), id.String(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMyReview handles GET /api/v1/recipes/{id}/reviews/me
// Returns the caller's review from the cached view, or null when no page
// has been loaded or the caller has not reviewed this recipe.
func (h *ReviewHandler) GetMyReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	review := h.service.GetUserReview(id.String(), userID)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// GetReviewStats handles GET /api/v1/recipes/{id}/reviews/stats
// By default this is computed over the cached pages only. With
// source=store the statistics are recomputed over the complete review set.
func (h *ReviewHandler) GetReviewStats(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if r.URL.Query().Get("source") == "store" {
		summary, err := h.service.GetSummary(r.Context(), id.String())
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
		return
	}

	stats := h.service.GetRecipeStats(id.String())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}
