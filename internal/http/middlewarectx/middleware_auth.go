// Package middlewarectx содержит HTTP middleware API: аутентификацию по JWT,
// ограничение частоты запросов и сбор метрик.
//
// JWTMiddleware проверяет токен доступа из заголовка Authorization и кладёт
// субъекта запроса (access.Actor) в контекст. Возможности субъекта
// вычисляются один раз на запрос. При ошибке отвечает 401.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
)

// Authenticator разбирает токен доступа.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (access.Actor, error)
}

// JWTMiddleware возвращает middleware, который требует действующий токен доступа.
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.RenderError(w, r, log,
					apperr.Unauthenticated("authentication credentials were not provided"))
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			actor, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				response.RenderError(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(access.WithActor(r.Context(), actor)))
		})
	}
}
