// Package scheduler собирает процесс, который по расписанию ставит плановые задачи в очередь.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/services/jobs"
	schedulerservice "github.com/magabrotheeeer/course-platform/internal/services/scheduler"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.Service
	entries          []schedulerservice.Entry
	conn             *amqp.Connection
	ch               *amqp.Channel
	logger           *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.QueuesFor(cfg.RabbitMQ.Exchange, models.Tasks...), 0)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	enqueuer := jobs.NewEnqueuer(rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange))

	return &App{
		schedulerService: schedulerservice.NewService(enqueuer, logger),
		entries:          Entries(cfg),
		conn:             conn,
		ch:               ch,
		logger:           logger,
	}, nil
}

// Entries возвращает расписание плановых задач.
func Entries(cfg *config.Config) []schedulerservice.Entry {
	return []schedulerservice.Entry{
		{
			Task:     models.TaskDeactivateInactive,
			Args:     struct{}{},
			Interval: cfg.Sweeper.Interval,
		},
	}
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает планировщик и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, entry := range a.entries {
		wg.Add(1)
		go func(e schedulerservice.Entry) {
			defer wg.Done()
			a.schedulerService.Run(ctx, e)
		}(entry)
		a.logger.Info("schedule entry registered",
			slog.String("task", entry.Task),
			slog.Duration("interval", entry.Interval),
		)
	}

	<-ctx.Done()
	wg.Wait()

	a.logger.Info("shutting down scheduler service")
	closeResources(a.ch, a.conn, a.logger)
	return nil
}
