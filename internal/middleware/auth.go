package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/baharkarakas/campus-closet/internal/api/httpx"
	"github.com/baharkarakas/campus-closet/internal/auth"
	"github.com/baharkarakas/campus-closet/internal/models"
)

type userKey struct{}

// Principal is the authenticated caller.
type Principal struct {
	UserID int64
	Role   models.Role
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, userKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(userKey{}).(Principal)
	return p, ok
}

type AuthMiddleware struct {
	TM     *auth.TokenManager
	AppEnv string
}

func NewAuthMiddleware(tm *auth.TokenManager, appEnv string) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, AppEnv: appEnv}
}

// Auth accepts "Bearer <access JWT>". In dev it also accepts "Bearer dev-<id>",
// which authenticates user <id> with role BOTH.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		if m.AppEnv == "dev" && strings.HasPrefix(token, "dev-") {
			id, err := strconv.ParseInt(strings.TrimPrefix(token, "dev-"), 10, 64)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "invalid dev token", nil)
				return
			}
			ctx := WithPrincipal(r.Context(), Principal{UserID: id, Role: models.RoleBoth})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		claims, err := m.TM.ParseAccess(token)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "invalid access token", nil)
			return
		}
		ctx := WithPrincipal(r.Context(), Principal{UserID: claims.UserID, Role: models.Role(claims.Role)})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
