// Package middlewarectx содержит HTTP middleware для проверки bearer-токенов.
//
// AuthMiddleware извлекает токен из заголовка Authorization, проверяет его
// через удалённый сервис аутентификации и в случае успеха добавляет в контекст
// запроса подтверждённую личность пользователя.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/SteelCrab/coffee-count/internal/authclient"
	"github.com/SteelCrab/coffee-count/internal/http/response"
	"github.com/SteelCrab/coffee-count/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте.
	UserUID Key = "user_uid"
	// UserInfo — ключ для данных пользователя в контексте.
	UserInfo Key = "user_info"
)

// Verifier описывает интерфейс клиента проверки токенов.
type Verifier interface {
	Verify(ctx context.Context, token string) (*authclient.TokenData, error)
}

// AuthMiddleware возвращает HTTP middleware, который проверяет bearer-токен
// в заголовке Authorization через удалённый сервис аутентификации.
//
// Заголовок обязан иметь вид "Bearer <token>"; при его отсутствии или другой
// схеме запрос отклоняется без обращения к сервису аутентификации.
func AuthMiddleware(verifier Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authorization header required"))
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				log.Error("empty bearer token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authorization header required"))
				return
			}

			tokenData, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Error("token verification failed", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(err.Error()))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, tokenData.UserUID)
			ctx = context.WithValue(ctx, UserInfo, &tokenData.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
