package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

var (
	// ErrMalformedJob тело сообщения не является конвертом задачи.
	ErrMalformedJob = errors.New("malformed job")
	// ErrUnknownTask для задачи нет обработчика.
	ErrUnknownTask = errors.New("unknown task")
)

// Handler выполняет задачу и возвращает текстовый результат.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Dispatcher раздаёт задачи обработчикам по имени.
type Dispatcher struct {
	handlers map[string]Handler
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewDispatcher создаёт пустой Dispatcher.
func NewDispatcher(log *slog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler),
		log:      log,
		metrics:  m,
	}
}

// Register назначает обработчик задаче task.
func (d *Dispatcher) Register(task string, h Handler) {
	d.handlers[task] = h
}

// Tasks возвращает имена зарегистрированных задач.
func (d *Dispatcher) Tasks() []string {
	tasks := make([]string, 0, len(d.handlers))
	for t := range d.handlers {
		tasks = append(tasks, t)
	}
	sort.Strings(tasks)
	return tasks
}

// Handle разбирает конверт и выполняет задачу. Ошибка возвращается только
// для сообщений, которые нельзя обработать в принципе; сбой самой задачи
// логируется и не возвращается, повторов нет.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) error {
	const op = "jobs.Dispatcher.Handle"
	log := d.log.With(slog.String("op", op))

	var job models.Job
	if err := json.Unmarshal(body, &job); err != nil || job.Task == "" {
		d.metrics.JobProcessed("unknown", "rejected")
		if err == nil {
			err = errors.New("empty task name")
		}
		log.Error("rejecting malformed job", sl.Err(err))
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedJob, err)
	}

	h, ok := d.handlers[job.Task]
	if !ok {
		d.metrics.JobProcessed(job.Task, "rejected")
		log.Error("rejecting job with unknown task", slog.String("task", job.Task))
		return fmt.Errorf("%s: %w: %s", op, ErrUnknownTask, job.Task)
	}

	log = log.With(slog.String("task", job.Task))
	result, err := h(ctx, job.Args)
	if err != nil {
		d.metrics.JobProcessed(job.Task, "failed")
		log.Error("job failed", slog.String("result", result), sl.Err(err))
		return nil
	}

	d.metrics.JobProcessed(job.Task, "ok")
	log.Info("job done", slog.String("result", result))
	return nil
}
