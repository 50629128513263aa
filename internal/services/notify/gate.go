// Package notify решает, когда изменение курса должно оповестить подписчиков.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// CourseToucher атомарно обновляет метку изменения курса.
type CourseToucher interface {
	// TouchCourse выставляет updated_at = now и возвращает прежнее значение.
	TouchCourse(ctx context.Context, id int64, now time.Time) (time.Time, error)
}

// Enqueuer ставит задачу в очередь.
type Enqueuer interface {
	Enqueue(ctx context.Context, task string, args any) error
}

// Gate ставит рассылку подписчикам, если курс не менялся дольше порога.
// Метка изменения обновляется при каждом вызове, поэтому серия правок
// с интервалами меньше порога даёт не больше одной рассылки.
type Gate struct {
	repo      CourseToucher
	enqueuer  Enqueuer
	threshold time.Duration
	now       func() time.Time
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// NewGate создаёт Gate с порогом threshold.
func NewGate(repo CourseToucher, enqueuer Enqueuer, threshold time.Duration, log *slog.Logger, m *metrics.Metrics) *Gate {
	return &Gate{
		repo:      repo,
		enqueuer:  enqueuer,
		threshold: threshold,
		now:       time.Now,
		log:       log,
		metrics:   m,
	}
}

// CourseChanged фиксирует изменение курса и возвращает true, если рассылка
// поставлена в очередь. Ошибка публикации логируется и не возвращается.
func (g *Gate) CourseChanged(ctx context.Context, course *models.Course) (bool, error) {
	const op = "notify.Gate.CourseChanged"
	log := g.log.With(slog.String("op", op), slog.Int64("course_id", course.ID))

	now := g.now()
	prev, err := g.repo.TouchCourse(ctx, course.ID, now)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if now.Sub(prev) <= g.threshold {
		log.Debug("course changed recently, notification skipped", slog.Time("previous_update", prev))
		return false, nil
	}

	args := models.NotifySubscribersArgs{CourseID: course.ID, CourseTitle: course.Title}
	if err := g.enqueuer.Enqueue(ctx, models.TaskNotifySubscribers, args); err != nil {
		log.Error("failed to enqueue subscribers notification", sl.Err(err))
		return false, nil
	}
	g.metrics.NotificationEnqueued()
	log.Info("subscribers notification enqueued")
	return true, nil
}
