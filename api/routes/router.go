package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelbites/reelbites-backend/api/controllers"
	"github.com/reelbites/reelbites-backend/api/middleware"
	"github.com/reelbites/reelbites-backend/internal/auth"
	"github.com/reelbites/reelbites-backend/internal/catalog"
	"github.com/reelbites/reelbites-backend/internal/follows"
	"github.com/reelbites/reelbites-backend/internal/interactions"
	"github.com/reelbites/reelbites-backend/internal/notifications"
	"github.com/reelbites/reelbites-backend/internal/orders"
	"github.com/reelbites/reelbites-backend/internal/ratings"
	"github.com/reelbites/reelbites-backend/pkg/auth/session"
	"github.com/reelbites/reelbites-backend/pkg/config"
	"github.com/reelbites/reelbites-backend/pkg/enums"
	"github.com/reelbites/reelbites-backend/pkg/logger"
	pkgredis "github.com/reelbites/reelbites-backend/pkg/redis"
)

// Deps bundles everything the router mounts. All services are required; the
// pingers may be nil, in which case readiness skips them.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               controllers.Pinger
	Redis            *pkgredis.Client
	Sessions         session.AccessSessionChecker
	AuthService      auth.Service
	CatalogService   catalog.Service
	Interactions     interactions.Service
	Follows          follows.Service
	Ratings          ratings.Service
	Orders           orders.Service
	Notifications    notifications.Service
	IdempotencyStore pkgredis.IdempotencyStore
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	var limiter middleware.RateLimiterStore
	if deps.Redis != nil {
		limiter = deps.Redis
	}
	loginLimit := middleware.AuthRateLimit(middleware.AuthRateLimitPolicy{
		Name:       "login",
		Window:     cfg.AuthRateLimit.LoginWindow,
		IPLimit:    cfg.AuthRateLimit.LoginIPLimit,
		EmailLimit: cfg.AuthRateLimit.LoginEmailLimit,
	}, limiter, logg)
	registerLimit := middleware.AuthRateLimit(middleware.AuthRateLimitPolicy{
		Name:       "register",
		Window:     cfg.AuthRateLimit.RegisterWindow,
		IPLimit:    cfg.AuthRateLimit.RegisterIPLimit,
		EmailLimit: cfg.AuthRateLimit.RegisterEmailLimit,
	}, limiter, logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(registerLimit, middleware.Idempotency(deps.IdempotencyStore, logg)).
			Post("/user/register", controllers.RegisterUser(deps.AuthService, logg))
		r.With(registerLimit, middleware.Idempotency(deps.IdempotencyStore, logg)).
			Post("/food-partner/register", controllers.RegisterPartner(deps.AuthService, logg))
		r.With(loginLimit).Post("/user/login", controllers.LoginUser(deps.AuthService, logg))
		r.With(loginLimit).Post("/food-partner/login", controllers.LoginPartner(deps.AuthService, logg))
		r.Post("/refresh", controllers.RefreshTokens(deps.AuthService, logg))
		r.Post("/logout", controllers.Logout(deps.AuthService, logg))
	})

	r.With(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg)).
		Get("/api/v1/feed", controllers.Feed(deps.CatalogService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRoleUser, logg))
			r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))

			r.Post("/food/{foodId}/like", controllers.ToggleLike(deps.Interactions, logg))
			r.Post("/food/{foodId}/save", controllers.ToggleSave(deps.Interactions, logg))
			r.Post("/food-partner/{partnerId}/follow", controllers.ToggleFollow(deps.Follows, logg))
			r.Put("/food-partner/{partnerId}/rating", controllers.SubmitRating(deps.Ratings, logg))

			r.Post("/orders", controllers.PlaceOrder(deps.Orders, logg))
			r.Get("/orders", controllers.ListUserOrders(deps.Orders, logg))
			r.Get("/orders/{orderId}", controllers.GetOrder(deps.Orders, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
				r.Get("/unread-count", controllers.UnreadNotificationCount(deps.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			})
		})

		r.Route("/partner", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRolePartner, logg))

			r.Route("/food", func(r chi.Router) {
				r.Post("/", controllers.CreateFoodItem(deps.CatalogService, logg))
				r.Get("/", controllers.ListPartnerFood(deps.CatalogService, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListPartnerOrders(deps.Orders, logg))
				r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
				r.Patch("/{orderId}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
			})
		})
	})

	return r
}
