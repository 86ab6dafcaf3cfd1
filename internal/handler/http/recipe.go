package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/internal/service"
	"github.com/JoseCristhianRG/RecetApp/pkg/httputil"
	"github.com/JoseCristhianRG/RecetApp/pkg/middleware"
	"github.com/JoseCristhianRG/RecetApp/pkg/validator"
)

// RecipeHandler handles HTTP requests for recipe endpoints.
type RecipeHandler struct {
	service *service.RecipeService
	logger  *slog.Logger
}

// NewRecipeHandler creates a new recipe HTTP handler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// RecipeRequest is the JSON request body for creating or updating a recipe.
type RecipeRequest struct {
	CategoryID  string   `json:"category_id" validate:"required,uuid"`
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Ingredients []string `json:"ingredients" validate:"required,min=1,max=100,dive,min=1,max=200"`
	Steps       []string `json:"steps" validate:"required,min=1,max=50,dive,min=1,max=2000"`
	Tags        []string `json:"tags" validate:"max=20,dive,min=1,max=50"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url,max=500"`
	IsPublic    bool     `json:"is_public"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft published"`
}

func (r RecipeRequest) toInput() service.RecipeInput {
	return service.RecipeInput{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		Tags:        r.Tags,
		ImageURL:    r.ImageURL,
		IsPublic:    r.IsPublic,
		Status:      r.Status,
	}
}

// --- Handlers ---

// ListRecipes handles GET /api/v1/recipes
// @Summary List recipes
// @Description Returns paginated recipes with optional filtering. Anonymous callers see only public published recipes.
// @Tags recipes
// @Produce json
// @Param category_id query string false "Filter by category UUID"
// @Param tag query string false "Filter by tag"
// @Param search query string false "Search in name and description"
// @Param user_id query string false "Filter by author UUID"
// @Param limit query int false "Items per page (max 100)" default(20)
// @Param offset query int false "Offset into the result set" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/recipes [get]
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	filter := domain.RecipeFilter{}

	q := r.URL.Query()
	filter.CategoryID = q.Get("category_id")
	filter.Tag = q.Get("tag")
	filter.Search = q.Get("search")
	filter.UserID = q.Get("user_id")

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "limit must be a valid integer between 1 and 100"},
			})
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "offset must be a non-negative integer"},
			})
			return
		}
		filter.Offset = offset
	}

	viewerID := middleware.UserIDFromContext(r.Context())
	viewerRole := middleware.RoleFromContext(r.Context())

	recipes, total, err := h.service.List(r.Context(), filter, viewerID, viewerRole)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if filter.Limit == 0 {
		filter.Limit = 20
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(recipes, total, filter.Limit, filter.Offset))
}

// GetRecipe handles GET /api/v1/recipes/{id}
// @Summary Get a recipe
// @Description Returns a recipe with its ordered preparation steps
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	viewerID := middleware.UserIDFromContext(r.Context())
	viewerRole := middleware.RoleFromContext(r.Context())

	recipe, err := h.service.Get(r.Context(), id.String(), viewerID, viewerRole)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: recipe})
}

// CreateRecipe handles POST /api/v1/recipes
// @Summary Create a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body RecipeRequest true "Recipe to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/recipes [post]
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req RecipeRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	recipe, err := h.service.Create(r.Context(), userID, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: recipe})
}

// UpdateRecipe handles PUT /api/v1/recipes/{id}
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req RecipeRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	callerID := middleware.UserIDFromContext(r.Context())
	callerRole := middleware.RoleFromContext(r.Context())

	recipe, err := h.service.Update(r.Context(), id.String(), callerID, callerRole, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: recipe})
}

// DeleteRecipe handles DELETE /api/v1/recipes/{id}
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	callerID := middleware.UserIDFromContext(r.Context())
	callerRole := middleware.RoleFromContext(r.Context())

	if err := h.service.Delete(r.Context(), id.String(), callerID, callerRole); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
