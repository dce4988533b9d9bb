package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/detailpro/detailpro-backend/api/controllers"
	"github.com/detailpro/detailpro-backend/api/middleware"
	"github.com/detailpro/detailpro-backend/internal/businesses"
	"github.com/detailpro/detailpro-backend/internal/catalog"
	"github.com/detailpro/detailpro-backend/internal/quotes"
	"github.com/detailpro/detailpro-backend/pkg/config"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	"github.com/detailpro/detailpro-backend/pkg/logger"
)

// cacheStore is the slice of the redis client the HTTP layer needs.
type cacheStore interface {
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	Ping(context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cache cacheStore,
	metricsHandler http.Handler,
	businessService businesses.Service,
	catalogService catalog.Service,
	quoteService quotes.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(cfg.CORS),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	readyDeps := map[string]controllers.Pinger{"postgres": dbP}
	if cache != nil {
		readyDeps["redis"] = cache
	}

	publicPolicy := middleware.NewRateLimitPolicy(
		"public_quote",
		cfg.RateLimit.PublicWindow,
		cfg.RateLimit.PublicLimit,
		cfg.RateLimit.PublicLimit,
	)
	var limiter, idempotency = rateLimiter(cache), idempotencyStore(cache)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/demo/quote", controllers.DemoQuote(logg))
		r.Route("/quotes/{shareId}", func(r chi.Router) {
			r.With(middleware.RateLimit(publicPolicy, limiter, logg)).Get("/", controllers.PublicQuoteOpen(quoteService, logg))
			r.With(middleware.RateLimit(publicPolicy, limiter, logg)).Post("/respond", controllers.PublicQuoteRespond(quoteService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotency, cfg.Idempotency.TTL, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/business", func(r chi.Router) {
			r.Post("/", controllers.BusinessCreate(businessService, logg))
			r.Get("/", controllers.BusinessGet(businessService, logg))
			r.Put("/", controllers.BusinessUpdate(businessService, logg))
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Get("/", controllers.PricingGet(catalogService, logg))
			r.Put("/", controllers.PricingReplace(catalogService, logg))
			r.Put("/{category}", controllers.PricingReplaceCategory(catalogService, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", controllers.QuoteCreate(quoteService, logg))
			r.Get("/", controllers.QuoteList(quoteService, logg))
			r.Route("/{quoteId}", func(r chi.Router) {
				r.Get("/", controllers.QuoteGet(quoteService, logg))
				r.Patch("/", controllers.QuoteUpdate(quoteService, logg))
				r.Delete("/", controllers.QuoteDelete(quoteService, logg))
				r.Post("/send", controllers.QuoteSend(quoteService, logg))
				r.Post("/status", controllers.QuoteMarkStatus(quoteService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.MemberRoleAdmin, logg))
			r.Get("/stats", controllers.AdminStats(quoteService, logg))
			r.Get("/quotes", controllers.AdminQuoteList(quoteService, logg))
			r.Delete("/quotes/{quoteId}", controllers.AdminQuoteDelete(quoteService, logg))
			r.Post("/quotes/{quoteId}/status", controllers.AdminQuoteMarkStatus(quoteService, logg))
			r.Delete("/users/{userId}", controllers.AdminUserDelete(businessService, logg))
		})
	})

	return r
}

// rateLimiter and idempotencyStore keep a missing cache a true nil interface
// so the middlewares pass through instead of failing every request.
func rateLimiter(cache cacheStore) interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
} {
	if cache == nil {
		return nil
	}
	return cache
}

func idempotencyStore(cache cacheStore) interface {
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
} {
	if cache == nil {
		return nil
	}
	return cache
}
