// internal/service/order/interfaces/middleware.go
package interfaces

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"storefront/internal/pkg/tracing"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
)

// 身份由前置的认证网关校验后通过请求头下发，这里无条件信任。
const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

// UserFromContext 取出当前请求的买家标识。
func UserFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// IsAdmin 判断当前请求是否具有管理员角色。
func IsAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(userRoleKey).(string)
	return role == "admin"
}

// withRequestContext 提取追踪上下文并注入带 trace_id 的请求级 logger。
func withRequestContext(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		requestLogger := log.With().Str("trace_id", tracing.GetTraceIDFromContext(ctx)).Logger()
		ctx = requestLogger.WithContext(ctx)

		next(w, r.WithContext(ctx))
	}
}

// requireUser 要求请求携带买家身份。
func requireUser(next http.HandlerFunc) http.HandlerFunc {
	return withRequestContext(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(headerUserID)
		if userID == "" {
			writeFailure(w, http.StatusUnauthorized, "Authentication required", nil)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, r.Header.Get(headerUserRole))
		next(w, r.WithContext(ctx))
	})
}

// requireAdmin 在买家身份之上额外要求管理员角色。
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerUserRole) != "admin" {
			writeFailure(w, http.StatusForbidden, "Admin access required", nil)
			return
		}
		next(w, r)
	})
}
