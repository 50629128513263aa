package payment

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Create открывает платёжную сессию на курс или урок.
//
// @Summary Оплатить курс или урок
// @Description Указывается ровно один из course_id и lesson_id. Возвращает ссылку на оплату.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreatePaymentRequest true "Объект оплаты"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /payments/create-payment [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.Create"
	log := h.logger(r, op)

	var req models.CreatePaymentRequest
	if err := request.DecodeJSON(r, h.validate, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	res, err := h.service.Create(r.Context(), access.FromContext(r.Context()), req)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("payment session created", slog.Int64("payment_id", res.PaymentID))
	response.OK(w, r, http.StatusCreated, res)
}
