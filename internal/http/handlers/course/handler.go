// Package course реализует HTTP-обработчики курсов.
//
// Субъект запроса берётся из контекста (его кладёт JWTMiddleware), решения о
// доступе принимает сервис. Ошибки переводятся в статусы через response.RenderError.
package course

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Service описывает бизнес-логику курсов.
type Service interface {
	List(ctx context.Context, actor access.Actor, p pagination.Params) (models.Page[models.CourseView], error)
	Create(ctx context.Context, actor access.Actor, req models.CreateCourseRequest) (*models.CourseView, error)
	Get(ctx context.Context, actor access.Actor, id int64) (*models.CourseView, error)
	Update(ctx context.Context, actor access.Actor, id int64, upd models.UpdateCourseRequest) (*models.CourseView, error)
	Delete(ctx context.Context, actor access.Actor, id int64) error
}

// Handler обрабатывает запросы к курсам.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: request.NewValidator(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
