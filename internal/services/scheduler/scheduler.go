// Package scheduler периодически ставит в очередь плановые задачи.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

// Enqueuer ставит задачу в очередь.
type Enqueuer interface {
	Enqueue(ctx context.Context, task string, args any) error
}

// Entry плановая задача с интервалом запуска.
type Entry struct {
	Task     string
	Args     any
	Interval time.Duration
}

// Service ставит плановые задачи в очередь.
type Service struct {
	enqueuer Enqueuer
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(enqueuer Enqueuer, log *slog.Logger) *Service {
	return &Service{enqueuer: enqueuer, log: log}
}

// Run ставит задачу entry сразу, затем каждые entry.Interval до отмены ctx.
func (s *Service) Run(ctx context.Context, entry Entry) {
	s.enqueue(ctx, entry)

	ticker := time.NewTicker(entry.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueue(ctx, entry)
		}
	}
}

func (s *Service) enqueue(ctx context.Context, entry Entry) {
	log := s.log.With(slog.String("task", entry.Task))
	if err := s.enqueuer.Enqueue(ctx, entry.Task, entry.Args); err != nil {
		log.Error("failed to enqueue scheduled task", sl.Err(err))
		return
	}
	log.Info("scheduled task enqueued")
}
