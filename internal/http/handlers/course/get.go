package course

import (
	"net/http"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
)

// Get возвращает курс с уроками.
//
// @Summary Получить курс
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID курса"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /courses/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.Get"
	log := h.logger(r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	course, err := h.service.Get(r.Context(), access.FromContext(r.Context()), id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.OK(w, r, http.StatusOK, course)
}
