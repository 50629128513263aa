// Package worker собирает процесс обработки фоновых задач: потребителей
// очередей, диспетчер задач, gRPC health и сервер метрик.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/services/jobs"
	"github.com/magabrotheeeer/course-platform/internal/services/sender"
	"github.com/magabrotheeeer/course-platform/internal/services/sweeper"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// consumerDrainTimeout сколько ждать завершения обработчиков при остановке.
const consumerDrainTimeout = 30 * time.Second

// App процесс обработки задач.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	db         *repository.Storage
	conn       *amqp.Connection
	ch         *amqp.Channel
	dispatcher *jobs.Dispatcher
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	metricsSrv *http.Server
	consumers  sync.WaitGroup
}

// New подключается к базе и брокеру и регистрирует обработчики задач.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.worker.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	dispatcher := NewDispatcher(cfg, logger, db, m)

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange,
		rabbitmq.QueuesFor(cfg.RabbitMQ.Exchange, dispatcher.Tasks()...), cfg.Worker.Prefetch)
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lis, err := net.Listen("tcp", cfg.Worker.GRPCAddress)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &App{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		conn:       conn,
		ch:         ch,
		dispatcher: dispatcher,
		grpcServer: grpcServer,
		health:     hs,
		listener:   lis,
		metricsSrv: &http.Server{
			Addr:              cfg.Worker.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// NewDispatcher регистрирует обработчики всех известных задач.
func NewDispatcher(cfg *config.Config, logger *slog.Logger, db *repository.Storage, m *metrics.Metrics) *jobs.Dispatcher {
	d := jobs.NewDispatcher(logger, m)
	d.Register(models.TaskNotifySubscribers,
		sender.NewService(db, NewMailer(cfg.Mail, logger), logger).NotifySubscribers)
	d.Register(models.TaskDeactivateInactive,
		sweeper.NewService(db, cfg.Sweeper.InactivityPeriod, logger).DeactivateInactive)
	return d
}

// NewMailer возвращает отправщика писем для выбранного backend.
func NewMailer(cfg config.Mail, logger *slog.Logger) sender.Mailer {
	if cfg.Backend == config.MailBackendSMTP {
		return sender.NewSMTPMailer(smtp.NewTransport(smtp.Settings{
			Host:       cfg.Host,
			Port:       cfg.Port,
			User:       cfg.User,
			Password:   cfg.Password,
			From:       cfg.From,
			RequireTLS: cfg.RequireTLS,
		}, logger), logger)
	}
	return sender.NewConsoleMailer(cfg.From, logger)
}

// Run запускает потребителей, gRPC health и сервер метрик и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	consumeCtx, stopConsumers := context.WithCancel(ctx)
	defer stopConsumers()

	for _, task := range a.dispatcher.Tasks() {
		queue := a.cfg.RabbitMQ.Exchange + "." + task
		if err := rabbitmq.ConsumerMessage(consumeCtx, a.ch, queue, a.dispatcher.Handle, a.logger, &a.consumers); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", queue), sl.Err(err))
			stopConsumers()
			a.waitConsumers()
			a.close()
			return err
		}
		a.logger.Info("consumer started", slog.String("queue", queue))
	}

	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("gRPC health server listening", slog.String("address", a.listener.Addr().String()))
		errCh <- a.grpcServer.Serve(a.listener)
	}()
	go func() {
		a.logger.Info("metrics server listening", slog.String("address", a.metricsSrv.Addr))
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	a.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	var err error
	select {
	case <-ctx.Done():
		a.logger.Info("worker shutting down gracefully")
	case err = <-errCh:
		a.logger.Error("worker server stopped", sl.Err(err))
	}

	stopConsumers()
	a.health.Shutdown()
	a.grpcServer.GracefulStop()
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := a.metricsSrv.Shutdown(timeoutCtx); shutdownErr != nil {
		a.logger.Error("failed to stop metrics server", sl.Err(shutdownErr))
	}
	a.waitConsumers()
	a.close()
	return err
}

// waitConsumers ждёт завершения обработчиков, но не дольше consumerDrainTimeout.
func (a *App) waitConsumers() {
	done := make(chan struct{})
	go func() {
		a.consumers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(consumerDrainTimeout):
		a.logger.Warn("consumers did not finish in time", slog.Duration("timeout", consumerDrainTimeout))
	}
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
