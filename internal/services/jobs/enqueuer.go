// Package jobs ставит фоновые задачи в очередь и раздаёт полученные задачи
// обработчикам по имени.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Publisher публикует сообщение с ключом маршрутизации.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Enqueuer упаковывает аргументы в конверт задачи и публикует его.
// Вызывающий не ждёт выполнения задачи.
type Enqueuer struct {
	pub Publisher
	now func() time.Time
}

// NewEnqueuer создаёт Enqueuer поверх издателя.
func NewEnqueuer(pub Publisher) *Enqueuer {
	return &Enqueuer{pub: pub, now: time.Now}
}

// Enqueue ставит задачу task с аргументами args в очередь.
func (e *Enqueuer) Enqueue(ctx context.Context, task string, args any) error {
	const op = "jobs.Enqueue"
	job, err := models.NewJob(task, args, e.now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := e.pub.Publish(ctx, task, job); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
