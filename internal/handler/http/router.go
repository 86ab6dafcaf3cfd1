package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JoseCristhianRG/RecetApp/internal/auth"
	"github.com/JoseCristhianRG/RecetApp/internal/config"
	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/internal/service"
	"github.com/JoseCristhianRG/RecetApp/internal/storage"
	"github.com/JoseCristhianRG/RecetApp/pkg/health"
	"github.com/JoseCristhianRG/RecetApp/pkg/middleware"
)

// Services bundles the service layer dependencies of the router.
type Services struct {
	Users     *service.UserService
	Recipes   *service.RecipeService
	Reviews   *service.ReviewService
	Catalog   *service.CatalogService
	Favorites *service.FavoriteService
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	svcs Services,
	store storage.Storage,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("recetapp"))
	if cfg.OTELEnabled {
		r.Use(middleware.Tracing("recetapp"))
	}

	// Health check and operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}

	authHandler := NewAuthHandler(svcs.Users, logger)
	userHandler := NewUserHandler(svcs.Users, logger)
	recipeHandler := NewRecipeHandler(svcs.Recipes, logger)
	reviewHandler := NewReviewHandler(svcs.Reviews, logger)
	catalogHandler := NewCatalogHandler(svcs.Catalog, logger)
	favoriteHandler := NewFavoriteHandler(svcs.Favorites, logger)
	draftHandler := NewDraftHandler(svcs.Recipes, logger)
	mediaHandler := NewMediaHandler(store, cfg.MaxUploadSizeMB, logger)

	// Auth endpoints
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	// Recipe browsing and reviews. Reads are public; authentication, when
	// present, widens visibility to the caller's own private recipes.
	r.Route("/api/v1/recipes", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(tokenValidator))

			r.Get("/", recipeHandler.ListRecipes)
			r.Get("/{id}", recipeHandler.GetRecipe)
			r.Get("/{id}/reviews", reviewHandler.ListReviews)
			r.Get("/{id}/reviews/stats", reviewHandler.GetReviewStats)
		})

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))

			r.Post("/", recipeHandler.CreateRecipe)
			r.Put("/{id}", recipeHandler.UpdateRecipe)
			r.Delete("/{id}", recipeHandler.DeleteRecipe)

			r.Get("/{id}/reviews/me", reviewHandler.GetMyReview)
			r.Post("/{id}/reviews", reviewHandler.CreateReview)
			r.Put("/{id}/reviews/{reviewID}", reviewHandler.UpdateReview)
			r.Delete("/{id}/reviews/{reviewID}", reviewHandler.DeleteReview)
		})
	})

	// Catalogs are public reads with a short client cache window.
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.With(middleware.CacheControl(300)).Get("/", catalogHandler.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/", catalogHandler.CreateCategory)
			r.Delete("/{id}", catalogHandler.DeleteCategory)
		})
	})
	r.Route("/api/v1/ingredients", func(r chi.Router) {
		r.With(middleware.CacheControl(300)).Get("/", catalogHandler.ListIngredients)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/", catalogHandler.CreateIngredient)
			r.Delete("/{id}", catalogHandler.DeleteIngredient)
		})
	})

	// Profile, favorites, and wizard draft endpoints (auth required)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
			r.Post("/me/password", userHandler.ChangePassword)

			r.Get("/me/draft", draftHandler.GetDraft)
			r.Put("/me/draft", draftHandler.SaveDraft)
			r.Delete("/me/draft", draftHandler.DeleteDraft)

			r.Get("/me/favorites", favoriteHandler.ListFavorites)
			r.Get("/me/favorites/{recipeID}", favoriteHandler.CheckFavorite)
			r.Put("/me/favorites/{recipeID}", favoriteHandler.AddFavorite)
			r.Delete("/me/favorites/{recipeID}", favoriteHandler.RemoveFavorite)
		})

		// Account administration
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Get("/", userHandler.ListUsers)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}/role", userHandler.UpdateRole)
			r.Put("/{id}/active", userHandler.SetActive)
		})
	})

	// Media uploads (auth required)
	r.Route("/api/v1/media", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))

		r.Post("/", mediaHandler.Upload)
		r.Delete("/*", mediaHandler.Delete)
	})

	return r
}
