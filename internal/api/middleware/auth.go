package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/LGS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/LGS-AppointmentService/internal/domain"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
	msgUnknownRole   = "неизвестная роль пользователя"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "userRole"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает идентификацию вызывающей стороны из заголовков.
// Аутентификацию выполняет шлюз выше по цепочке, здесь только
// парсинг и закрытый разбор роли: неизвестная роль отклоняется,
// а не сводится к роли по умолчанию.
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := r.Header.Get(headerUserID)
			if userIDStr == "" {
				logger.Warn("Auth: missing %s header for %s %s", headerUserID, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			userID, err := strconv.ParseInt(userIDStr, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("Auth: invalid %s header %q for %s %s", headerUserID, userIDStr, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidUserID)
				return
			}

			role, err := domain.ParseRole(r.Header.Get(headerUserRole))
			if err != nil {
				logger.Warn("Auth: unknown role %q for user_id=%d", r.Header.Get(headerUserRole), userID)
				handlers.RespondForbidden(w, msgUnknownRole)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetRole возвращает роль пользователя из контекста
func GetRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(roleKey).(domain.Role)
	return role, ok
}
