// Package payment реализует HTTP-обработчики платежей.
package payment

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

// Service описывает бизнес-логику платежей.
type Service interface {
	List(ctx context.Context, actor access.Actor, f models.PaymentFilter, p pagination.Params) (models.Page[models.Payment], error)
	Get(ctx context.Context, actor access.Actor, id int64) (*models.Payment, error)
	Create(ctx context.Context, actor access.Actor, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error)
	CheckStatus(ctx context.Context, actor access.Actor, id int64) (*models.PaymentStatus, error)
	Delete(ctx context.Context, actor access.Actor, id int64) error
}

// Handler обрабатывает запросы к платежам.
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
