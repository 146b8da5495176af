// Package middlewarectx содержит HTTP middleware для аутентификации запросов
// и ограничения частоты обращений. Middleware кладут данные пользователя
// в контекст запроса для последующего использования обработчиками.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/http/response"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/jwt"
)

// Key — отдельный тип для ключей контекста, чтобы избежать коллизий
// с ключами других пакетов.
type Key string

const (
	// UserIDKey — ключ контекста с числовым идентификатором пользователя.
	UserIDKey Key = "userID"
	// UsernameKey — ключ контекста с именем пользователя.
	UsernameKey Key = "username"
	// RoleKey — ключ контекста с ролью пользователя.
	RoleKey Key = "role"
)

// TokenValidator проверяет JWT токен и возвращает его claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware возвращает middleware, проверяющий заголовок Authorization.
// Токен валидируется через validator, а идентификатор, имя и роль пользователя
// помещаются в контекст запроса. При отсутствии или невалидности токена
// возвращается 401.
func JWTMiddleware(validator TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("missing authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing authorization header"))
				return
			}

			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				log.Warn("invalid authorization header format")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid authorization header format"))
				return
			}

			claims, err := validator.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Warn("invalid token", slog.Any("error", err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext извлекает идентификатор пользователя из контекста.
// Возвращает false, если значение отсутствует.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}
