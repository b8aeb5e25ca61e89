package httpapi

import (
	"context"
	"net/http"
	"strings"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/service"

	"go.uber.org/zap"
)

type ctxKey int

const claimsKey ctxKey = iota

// Guard 鉴权装饰器：角色检查集中在这一处，不散落在各个 handler，
// 也绝不下沉到存储层。
type Guard struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewGuard(auth service.AuthService, logger *zap.Logger) *Guard {
	return &Guard{auth: auth, logger: logger}
}

// Authenticated 校验 Bearer token 并把 claims 放进请求上下文。
func (g *Guard) Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			writeJSON(w, http.StatusUnauthorized, Result[any]{
				Code: ResultTokenExpired, Type: "error", Message: "missing token",
			})
			return
		}
		claims, err := g.auth.ParseToken(token)
		if err != nil {
			g.logger.Debug("token rejected", zap.Error(err))
			writeJSON(w, http.StatusUnauthorized, Result[any]{
				Code: ResultTokenExpired, Type: "error", Message: "invalid token",
			})
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// Require 在 Authenticated 之上再加角色限制。
func (g *Guard) Require(next http.HandlerFunc, roles ...domain.Role) http.HandlerFunc {
	return g.Authenticated(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		for _, role := range roles {
			if claims.Role == role {
				next(w, r)
				return
			}
		}
		g.logger.Warn("forbidden",
			zap.String("user_id", claims.UserID),
			zap.String("role", string(claims.Role)),
			zap.String("path", r.URL.Path),
		)
		writeJSON(w, http.StatusForbidden, Fail("forbidden"))
	})
}

// claimsFrom 只在 Authenticated 包裹的 handler 内调用。
func claimsFrom(r *http.Request) *service.Claims {
	claims, _ := r.Context().Value(claimsKey).(*service.Claims)
	return claims
}
