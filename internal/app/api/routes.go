package api

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/course-platform/docs"
	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/course"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/health"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/lesson"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/payment"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/subscription"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/user"
	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
)

// Pinger зависимость, доступность которой показывает /health.
type Pinger = health.Pinger

// NewRouter регистрирует все маршруты приложения.
func NewRouter(cfg *config.Config, logger *slog.Logger, svc Services, m *metrics.Metrics, deps map[string]Pinger) chi.Router {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.URLFormat,
		render.SetContentType(render.ContentTypeJSON),
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middlewarectx.MetricsMiddleware(m),
	)
	if cfg.IsDebug() {
		r.Use(middleware.Logger)
	}

	limiter := middlewarectx.NewClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	courses := course.New(logger, svc.Courses)
	lessons := lesson.New(logger, svc.Lessons)
	users := user.New(logger, svc.Users)
	payments := payment.New(logger, svc.Payments)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))

		// Открытые конечные точки
		r.Post("/users/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/token", login.New(logger, svc.Auth).ServeHTTP)
		r.Post("/token/refresh", refresh.New(logger, svc.Auth).ServeHTTP)
		r.Post("/token/blacklist", logout.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", courses.List)
				r.Post("/", courses.Create)
				r.Get("/{id}", courses.Get)
				r.Put("/{id}", courses.Update)
				r.Patch("/{id}", courses.Update)
				r.Delete("/{id}", courses.Delete)
			})

			r.Route("/lessons", func(r chi.Router) {
				r.Get("/", lessons.List)
				r.Post("/", lessons.Create)
				r.Get("/{id}", lessons.Get)
				r.Put("/{id}", lessons.Update)
				r.Patch("/{id}", lessons.Update)
				r.Delete("/{id}", lessons.Delete)
			})

			r.Post("/subscriptions", subscription.New(logger, svc.Subscription).ServeHTTP)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", users.List)
				r.Get("/{id}", users.Get)
				r.Put("/{id}/profile", users.UpdateProfile)
				r.Patch("/{id}/profile", users.UpdateProfile)
				r.Delete("/{id}", users.Delete)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", payments.List)
				r.Post("/create-payment", payments.Create)
				r.Get("/{id}", payments.Get)
				r.Get("/{id}/check-status", payments.CheckStatus)
				r.Delete("/{id}", payments.Delete)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", health.New(logger, deps).ServeHTTP)
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
