package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "shutterops/pkg/domain"
	"shutterops/pkg/requestcontext"
)

// RoleAdmin is the role required for collection-wide reconciliation jobs.
const RoleAdmin = "admin"

// Claims are the fields we require from the identity provider's token. The
// IdP performs authentication; we only verify the signature and lift identity
// into the request context.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}

// RequireAuth validates the bearer token and injects user ID, email, and role
// into the request context. Absent or invalid identity yields 401.
func RequireAuth(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "bearer token required")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(signingKey), nil
			})
			if err != nil || !token.Valid {
				logger.WarnContext(ctx, "token validation failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			if claims.Subject == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "token missing subject")
				return
			}

			ctx = requestcontext.WithUserID(ctx, id.UserID(claims.Subject))
			ctx = requestcontext.WithEmail(ctx, claims.Email)
			ctx = requestcontext.WithRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a subtree on the caller's role. Runs after RequireAuth, so
// a missing role means an authenticated caller without the privilege: 403.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.Role(ctx) != role {
				logger.WarnContext(ctx, "role gate rejected caller",
					"request_id", requestcontext.RequestID(ctx),
					"required_role", role,
					"user_id", requestcontext.UserID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
