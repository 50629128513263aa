package course

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
)

// List возвращает страницу курсов.
//
// @Summary Список курсов
// @Description Модератор видит все курсы, остальные пользователи только свои.
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (до 100)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /courses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.List"
	log := h.logger(r, op)

	page, err := h.service.List(r.Context(), access.FromContext(r.Context()), pagination.FromRequest(r))
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Debug("courses listed", slog.Int("count", page.Count))
	response.OK(w, r, http.StatusOK, page)
}
