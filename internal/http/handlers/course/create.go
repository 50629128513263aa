package course

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Create создаёт курс текущего пользователя.
//
// @Summary Создать курс
// @Description Владельцем курса становится текущий пользователь. Цена по умолчанию 10000.00.
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCourseRequest true "Данные курса"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /courses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.Create"
	log := h.logger(r, op)

	var req models.CreateCourseRequest
	if err := request.DecodeJSON(r, h.validate, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	course, err := h.service.Create(r.Context(), access.FromContext(r.Context()), req)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("course created", slog.Int64("course_id", course.ID))
	response.OK(w, r, http.StatusCreated, course)
}
