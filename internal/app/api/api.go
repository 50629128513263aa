// Package api собирает HTTP API: хранилище, кэш, очередь задач, сервисы и маршруты.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-platform/internal/cache"
	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/migrations"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/course-platform/internal/services/auth"
	courseservice "github.com/magabrotheeeer/course-platform/internal/services/course"
	"github.com/magabrotheeeer/course-platform/internal/services/jobs"
	lessonservice "github.com/magabrotheeeer/course-platform/internal/services/lesson"
	"github.com/magabrotheeeer/course-platform/internal/services/notify"
	paymentservice "github.com/magabrotheeeer/course-platform/internal/services/payment"
	subscriptionservice "github.com/magabrotheeeer/course-platform/internal/services/subscription"
	userservice "github.com/magabrotheeeer/course-platform/internal/services/user"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// App HTTP API с его зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// Services сервисы, которые обслуживают маршруты.
type Services struct {
	Auth         *authservice.Service
	Users        *userservice.Service
	Courses      *courseservice.Service
	Lessons      *lessonservice.Service
	Subscription *subscriptionservice.Service
	Payments     *paymentservice.Service
}

// New подключается к зависимостям, применяет миграции и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.api.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := migrations.Run(db.DB(), cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.QueuesFor(cfg.RabbitMQ.Exchange, models.Tasks...), 0)
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := newServices(cfg, logger, db, cacheRedis, rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange), m)

	router := NewRouter(cfg, logger, svc, m, map[string]Pinger{
		"postgres": db,
		"redis":    cacheRedis,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

func newServices(cfg *config.Config, logger *slog.Logger, db *repository.Storage, c *cache.Cache, pub jobs.Publisher, m *metrics.Metrics) Services {
	jwtMaker := jwt.NewJWTMaker(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	gate := notify.NewGate(db, jobs.NewEnqueuer(pub), cfg.Notifications.UpdateThreshold, logger, m)
	courses := courseservice.NewService(db, cache.NewCourseCache(c, cfg.Redis.CourseTTL), gate, logger)
	provider := paymentprovider.NewClient(paymentprovider.Options{
		APIURL:     cfg.PaymentProvider.APIURL,
		SecretKey:  cfg.PaymentProvider.SecretKey,
		Currency:   cfg.PaymentProvider.Currency,
		SuccessURL: cfg.PaymentProvider.SuccessURL,
		CancelURL:  cfg.PaymentProvider.CancelURL,
		Timeout:    cfg.PaymentProvider.Timeout,
	})

	return Services{
		Auth:         authservice.NewService(db, jwtMaker, cache.NewTokenBlacklist(c), logger),
		Users:        userservice.NewService(db),
		Courses:      courses,
		Lessons:      lessonservice.NewService(db, courses),
		Subscription: subscriptionservice.NewService(db, logger),
		Payments:     paymentservice.NewService(db, provider, logger, m),
	}
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер и
// закрывает соединения.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
