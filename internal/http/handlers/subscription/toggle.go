// Package subscription реализует HTTP-обработчик переключения подписки на курс.
package subscription

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Service переключает подписку.
type Service interface {
	Toggle(ctx context.Context, actor access.Actor, req models.ToggleRequest) (models.ToggleResult, error)
}

// Handler обрабатывает POST /subscriptions.
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

// ServeHTTP подписывает пользователя на курс или снимает подписку.
//
// @Summary Переключить подписку на курс
// @Description Если подписки нет, создаёт её (201, "added"), иначе удаляет (200, "removed").
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ToggleRequest true "ID курса"
// @Success 200 {object} response.Response
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Toggle"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ToggleRequest
	if err := request.DecodeJSON(r, h.validate, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	result, err := h.service.Toggle(r.Context(), access.FromContext(r.Context()), req)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	status := http.StatusOK
	if result == models.SubscriptionAdded {
		status = http.StatusCreated
	}
	response.OK(w, r, status, response.MessageResponse{Message: string(result)})
}
