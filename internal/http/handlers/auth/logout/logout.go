// Package logout реализует HTTP-обработчик отзыва refresh-токена.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Service отзывает refresh-токены.
type Service interface {
	Logout(ctx context.Context, refreshToken string) error
}

// Handler обрабатывает POST /token/blacklist.
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

// ServeHTTP godoc
// @Summary Отзыв refresh-токена
// @Description Заносит refresh в чёрный список до истечения его срока.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest true "Refresh-токен"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /token/blacklist [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RefreshRequest
	if err := request.DecodeJSON(r, h.validate, &req); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	if err := h.service.Logout(r.Context(), req.Refresh); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Info("refresh token blacklisted")
	response.OK(w, r, http.StatusOK, response.MessageResponse{Message: "token blacklisted"})
}
