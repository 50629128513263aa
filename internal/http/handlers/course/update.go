package course

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Update меняет поля курса. PUT и PATCH обрабатываются одинаково:
// незаданные поля не меняются.
//
// @Summary Изменить курс
// @Description Доступно владельцу и модератору. Подписчики получают письмо, если курс не менялся больше 4 часов.
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID курса"
// @Param request body models.UpdateCourseRequest true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /courses/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.Update"
	log := h.logger(r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	var upd models.UpdateCourseRequest
	if err := request.DecodeJSON(r, h.validate, &upd); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	course, err := h.service.Update(r.Context(), access.FromContext(r.Context()), id, upd)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("course updated", slog.Int64("course_id", id))
	response.OK(w, r, http.StatusOK, course)
}
