package http

import (
	"log/slog"
	"net/http"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/internal/service"
	"github.com/JoseCristhianRG/RecetApp/pkg/httputil"
	"github.com/JoseCristhianRG/RecetApp/pkg/middleware"
	"github.com/JoseCristhianRG/RecetApp/pkg/validator"
)

// DraftHandler handles HTTP requests for the recipe wizard draft.
type DraftHandler struct {
	service *service.RecipeService
	logger  *slog.Logger
}

// NewDraftHandler creates a new draft HTTP handler.
func NewDraftHandler(svc *service.RecipeService, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{
		service: svc,
		logger:  logger,
	}
}

// DraftRequest is the JSON request body for saving the wizard draft.
// Fields are optional except the wizard step; the draft captures whatever
// the user has filled in so far.
type DraftRequest struct {
	Step        int      `json:"step" validate:"required,min=1,max=10"`
	Name        string   `json:"name" validate:"max=200"`
	CategoryID  string   `json:"category_id" validate:"omitempty,uuid"`
	Description string   `json:"description" validate:"max=5000"`
	Ingredients []string `json:"ingredients" validate:"max=100,dive,max=200"`
	Steps       []string `json:"steps" validate:"max=50,dive,max=2000"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url,max=500"`
	IsPublic    bool     `json:"is_public"`
}

// GetDraft handles GET /api/v1/users/me/draft
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	draft, err := h.service.GetDraft(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

// SaveDraft handles PUT /api/v1/users/me/draft
func (h *DraftHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req DraftRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	draft := &domain.RecipeDraft{
		Step:        req.Step,
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Tags:        req.Tags,
		ImageURL:    req.ImageURL,
		IsPublic:    req.IsPublic,
	}

	if err := h.service.SaveDraft(r.Context(), userID, draft); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

// DeleteDraft handles DELETE /api/v1/users/me/draft
func (h *DraftHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.DeleteDraft(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
