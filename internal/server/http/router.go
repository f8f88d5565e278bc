package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/logging"
	"github.com/dmitrijs2005/moviereviews/internal/server/auth"
	"github.com/dmitrijs2005/moviereviews/internal/server/cache"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
	"github.com/dmitrijs2005/moviereviews/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AccountService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, userID int64, refreshToken string) (*services.TokenPair, error)
}

type MovieService interface {
	List(ctx context.Context, filter models.MovieFilter) (models.List[models.Movie], error)
	Get(ctx context.Context, id int64) (*models.Movie, error)
	Create(ctx context.Context, actor auth.Identity, movie *models.Movie) (*models.Movie, error)
	Update(ctx context.Context, actor auth.Identity, id int64, patch models.MoviePatch) (*models.Movie, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) (reviewIDs []int64, err error)
}

type ReviewService interface {
	List(ctx context.Context, filter models.ReviewFilter) (models.List[models.Review], error)
	Get(ctx context.Context, movieID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, actor auth.Identity, movieID int64, review *models.Review) (*models.Review, error)
	Update(ctx context.Context, actor auth.Identity, movieID, reviewID int64, patch models.ReviewPatch) (*models.Review, error)
	Delete(ctx context.Context, actor auth.Identity, movieID, reviewID int64) error
}

type WebhookService interface {
	Get(ctx context.Context, actor auth.Identity, id int64) (*models.Webhook, error)
	Create(ctx context.Context, actor auth.Identity, url, token string) (*models.Webhook, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
}

// MovieCreatedNotifier is told about every movie that was added.
type MovieCreatedNotifier interface {
	MovieCreated(ctx context.Context, movie models.Movie)
}

// Config holds transport-level settings.
type Config struct {
	BaseURL           string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Deps are the collaborators the handlers delegate to.
type Deps struct {
	Tokens   AccessTokenVerifier
	Accounts AccountService
	Movies   MovieService
	Reviews  ReviewService
	Webhooks WebhookService
	Notifier MovieCreatedNotifier
	Cache    *cache.ResponseCache
	Logger   logging.Logger
}

type handler struct {
	Deps
	links linker
}

// NewRouter wires middleware and routes into a single http.Handler.
func NewRouter(cfg Config, deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Cache == nil {
		deps.Cache = cache.New()
	}
	h := &handler{Deps: deps, links: linker{baseURL: cfg.BaseURL}}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(deps.Logger))
	r.Use(metricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", common.AuthorizationHeaderName, "Content-Type", requestIDHeader},
		ExposedHeaders: []string{"Location", requestIDHeader},
		MaxAge:         300,
	}))
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
		// keyed on the TCP peer address
		r.Use(httprate.Limit(cfg.RateLimitRequests, cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, r, deps.Logger, common.ErrRateLimited)
			}),
		))
	}

	notFound := func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, deps.Logger, common.ErrorNotFound)
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", h.home)

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/authenticate", h.login)
		r.Post("/refresh", h.refresh)
	})

	authed := authenticate(deps.Tokens, deps.Logger)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", h.listMovies)
		r.With(authed).Post("/", h.createMovie)

		r.Route("/webhooks", func(r chi.Router) {
			r.With(authed).Post("/", h.createWebhook)
			r.With(authed).Get("/{webhookId}", h.getWebhook)
			r.With(authed).Delete("/{webhookId}", h.deleteWebhook)
		})

		r.Route("/{movieId}", func(r chi.Router) {
			r.Get("/", h.getMovie)
			r.With(authed).Put("/", h.updateMovie)
			r.With(authed).Delete("/", h.deleteMovie)

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", h.listReviews)
				r.With(authed).Post("/", h.createReview)
				r.Get("/{reviewId}", h.getReview)
				r.With(authed).Put("/{reviewId}", h.updateReview)
				r.With(authed).Delete("/{reviewId}", h.deleteReview)
			})
		})
	})

	return r
}
