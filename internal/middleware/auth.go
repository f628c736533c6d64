package middleware

import (
	"context"
	"net/http"
	"strings"

	"portfolio-service/pkg/jwtutil"
	"portfolio-service/pkg/response"
)

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

// AuthMiddleware validates the bearer token locally against the RSA public
// key and places the caller's user ID in the request context.
type AuthMiddleware struct {
	Verifier *jwtutil.Verifier
}

func NewAuthMiddleware(verifier *jwtutil.Verifier) *AuthMiddleware {
	return &AuthMiddleware{Verifier: verifier}
}

func (am *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		token := strings.TrimPrefix(authz, "Bearer ")

		claims, err := am.Verifier.ParseAndValidate(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if claims.UserID == "" {
			response.Error(w, http.StatusUnauthorized, "Token carries no user")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(string)
	return id, ok && id != ""
}
