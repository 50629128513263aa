package course

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
)

// Delete удаляет курс.
//
// @Summary Удалить курс
// @Description Доступно только владельцу. Модератор получает 403.
// @Tags Courses
// @Security BearerAuth
// @Param id path int true "ID курса"
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /courses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.Delete"
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
	log.Info("course deleted", slog.Int64("course_id", id))
	w.WriteHeader(http.StatusNoContent)
}
