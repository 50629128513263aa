package payment

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
)

// Get возвращает платёж.
//
// @Summary Платёж
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.Get"
	log := h.logger(r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	p, err := h.service.Get(r.Context(), access.FromContext(r.Context()), id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.OK(w, r, http.StatusOK, p)
}

// CheckStatus сверяет статус платежа с провайдером.
//
// @Summary Проверить статус оплаты
// @Description Запрашивает сессию у провайдера и отмечает платёж оплаченным, если оплата прошла.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "У платежа нет сессии"
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /payments/{id}/check-status [get]
func (h *Handler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.CheckStatus"
	log := h.logger(r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	st, err := h.service.CheckStatus(r.Context(), access.FromContext(r.Context()), id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("payment status checked",
		slog.Int64("payment_id", id),
		slog.Bool("is_paid", st.IsPaid),
	)
	response.OK(w, r, http.StatusOK, st)
}

// Delete удаляет платёж.
//
// @Summary Удалить платёж
// @Tags Payments
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.Delete"
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
	log.Info("payment deleted", slog.Int64("payment_id", id))
	w.WriteHeader(http.StatusNoContent)
}
