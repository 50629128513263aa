// Package health реализует проверку состояния API: доступность зависимостей
// и сведения о процессе.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/go-chi/render"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc адаптирует функцию к Pinger.
type PingFunc func(ctx context.Context) error

// Ping вызывает f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Status ответ проверки состояния.
type Status struct {
	Status        string            `json:"status" example:"ok"`
	Dependencies  map[string]string `json:"dependencies"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	RSSBytes      uint64            `json:"rss_bytes"`
	CPUPercent    float64           `json:"cpu_percent"`
}

// Handler обрабатывает GET /health.
type Handler struct {
	log     *slog.Logger
	deps    map[string]Pinger
	started time.Time
	timeout time.Duration
}

// New создаёт Handler. deps — проверяемые зависимости по именам.
func New(log *slog.Logger, deps map[string]Pinger) *Handler {
	return &Handler{
		log:     log,
		deps:    deps,
		started: time.Now(),
		timeout: 2 * time.Second,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Description Пингует базу и кэш, возвращает потребление памяти и CPU процессом.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	log := h.log.With(slog.String("op", op))

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	st := Status{
		Status:        "ok",
		Dependencies:  make(map[string]string, len(h.deps)),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	}

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			log.Warn("dependency is unavailable", slog.String("dependency", name), sl.Err(err))
			st.Dependencies[name] = "unavailable"
			st.Status = "degraded"
			continue
		}
		st.Dependencies[name] = "ok"
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			st.RSSBytes = mem.RSS
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			st.CPUPercent = cpu
		}
	}

	if st.Status != "ok" {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "dependency unavailable",
			Data:   st,
		})
		return
	}
	render.JSON(w, r, response.StatusOKWithData(st))
}
