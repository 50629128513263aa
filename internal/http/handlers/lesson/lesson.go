// Package lesson реализует HTTP-обработчики уроков.
package lesson

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

// Service описывает бизнес-логику уроков.
type Service interface {
	List(ctx context.Context, actor access.Actor, p pagination.Params) (models.Page[models.Lesson], error)
	Create(ctx context.Context, actor access.Actor, req models.CreateLessonRequest) (*models.Lesson, error)
	Get(ctx context.Context, actor access.Actor, id int64) (*models.Lesson, error)
	Update(ctx context.Context, actor access.Actor, id int64, upd models.UpdateLessonRequest) (*models.Lesson, error)
	Delete(ctx context.Context, actor access.Actor, id int64) error
}

// Handler обрабатывает запросы к урокам.
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

// List возвращает страницу уроков.
//
// @Summary Список уроков
// @Description Модератор видит все уроки, остальные пользователи только свои.
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (до 100)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /lessons [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.List"
	log := h.logger(r, op)

	page, err := h.service.List(r.Context(), access.FromContext(r.Context()), pagination.FromRequest(r))
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.OK(w, r, http.StatusOK, page)
}

// Create создаёт урок.
//
// @Summary Создать урок
// @Description Курс должен существовать и быть доступен пользователю. video_url только с youtube.com.
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateLessonRequest true "Данные урока"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /lessons [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.Create"
	log := h.logger(r, op)

	var req models.CreateLessonRequest
	if err := request.DecodeJSON(r, h.validate, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	lesson, err := h.service.Create(r.Context(), access.FromContext(r.Context()), req)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("lesson created", slog.Int64("lesson_id", lesson.ID), slog.Int64("course_id", lesson.CourseID))
	response.OK(w, r, http.StatusCreated, lesson)
}

// Get возвращает урок.
//
// @Summary Получить урок
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID урока"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /lessons/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.Get"
	log := h.logger(r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	lesson, err := h.service.Get(r.Context(), access.FromContext(r.Context()), id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.OK(w, r, http.StatusOK, lesson)
}

// Update меняет поля урока.
//
// @Summary Изменить урок
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID урока"
// @Param request body models.UpdateLessonRequest true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /lessons/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.Update"
	log := h.logger(r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	var upd models.UpdateLessonRequest
	if err := request.DecodeJSON(r, h.validate, &upd); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	lesson, err := h.service.Update(r.Context(), access.FromContext(r.Context()), id, upd)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("lesson updated", slog.Int64("lesson_id", id))
	response.OK(w, r, http.StatusOK, lesson)
}

// Delete удаляет урок.
//
// @Summary Удалить урок
// @Description Доступно только владельцу.
// @Tags Lessons
// @Security BearerAuth
// @Param id path int true "ID урока"
// @Success 204
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /lessons/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.Delete"
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
	log.Info("lesson deleted", slog.Int64("lesson_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
