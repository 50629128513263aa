package payment

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// List возвращает страницу платежей текущего пользователя.
//
// @Summary Список платежей
// @Description Фильтры по курсу, уроку и способу оплаты, сортировка по дате.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param course_id query int false "ID курса"
// @Param lesson_id query int false "ID урока"
// @Param payment_method query string false "cash или transfer"
// @Param ordering query string false "payment_date или -payment_date"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (до 100)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /payments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.List"
	log := h.logger(r, op)

	f, err := filterFromRequest(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	page, err := h.service.List(r.Context(), access.FromContext(r.Context()), f, pagination.FromRequest(r))
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Debug("payments listed", slog.Int("count", page.Count))
	response.OK(w, r, http.StatusOK, page)
}

func filterFromRequest(r *http.Request) (models.PaymentFilter, error) {
	var (
		f   models.PaymentFilter
		err error
	)
	if f.CourseID, err = request.OptionalInt64(r, "course_id"); err != nil {
		return f, err
	}
	if f.LessonID, err = request.OptionalInt64(r, "lesson_id"); err != nil {
		return f, err
	}
	q := r.URL.Query()
	f.Method = models.PaymentMethod(q.Get("payment_method"))
	f.Ordering = q.Get("ordering")
	return f, nil
}
