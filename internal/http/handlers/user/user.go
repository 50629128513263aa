// Package user реализует HTTP-обработчики учётных записей пользователей.
package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Service описывает бизнес-логику пользователей.
type Service interface {
	List(ctx context.Context, actor access.Actor, p pagination.Params) (models.Page[models.User], error)
	Get(ctx context.Context, actor access.Actor, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, actor access.Actor, id int64, upd models.ProfileUpdate) (*models.User, error)
	Delete(ctx context.Context, actor access.Actor, id int64) error
}

// Handler обрабатывает запросы к пользователям.
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

// List возвращает страницу пользователей.
//
// @Summary Список пользователей
// @Description Доступно только staff и superuser.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (до 100)"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.List"
	log := h.logger(r, op)

	page, err := h.service.List(r.Context(), access.FromContext(r.Context()), pagination.FromRequest(r))
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.OK(w, r, http.StatusOK, page)
}

// Get возвращает пользователя. Чужая запись отдаётся без телефона и служебных флагов.
//
// @Summary Получить пользователя
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Get"
	log := h.logger(r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	actor := access.FromContext(r.Context())
	u, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if !actor.Owns(u.ID) {
		response.OK(w, r, http.StatusOK, u.Public())
		return
	}
	response.OK(w, r, http.StatusOK, u)
}

// UpdateProfile меняет профиль пользователя.
//
// @Summary Изменить профиль
// @Description Изменяет first_name, last_name, phone, city, avatar. Email не меняется.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Param request body models.ProfileUpdate true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id}/profile [patch]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.UpdateProfile"
	log := h.logger(r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	var upd models.ProfileUpdate
	if err := request.DecodeJSON(r, h.validate, &upd); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	u, err := h.service.UpdateProfile(r.Context(), access.FromContext(r.Context()), id, upd)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("profile updated", slog.Int64("user_id", id))
	response.OK(w, r, http.StatusOK, u)
}

// Delete удаляет учётную запись.
//
// @Summary Удалить пользователя
// @Description Пользователь может удалить только себя.
// @Tags Users
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 204
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Delete"
	log := h.logger(r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	if err := h.service.Delete(r.Context(), access.FromContext(r.Context()), id); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("user deleted", slog.Int64("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
