package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/itdesk/extract-service/internal/auth"
	apperrors "github.com/itdesk/extract-service/internal/core/errors"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserClaimsKey is the key used to store user claims in the request context.
const UserClaimsKey contextKey = "userClaims"

// JWTMiddleware validates the JWT token from the Authorization header.
func JWTMiddleware(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAppError(w, apperrors.NewUnauthorizedError("Authorization header is required"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAppError(w, apperrors.NewUnauthorizedError("Authorization header format must be Bearer {token}"))
				return
			}

			tokenString := parts[1]
			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				writeAppError(w, apperrors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			// Add the claims to the context for downstream handlers to use.
			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdminAccess rejects authenticated users whose role does not grant
// the admin extract surface. Must run after JWTMiddleware.
func RequireAdminAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeAppError(w, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}
		if !claims.AdminAccess() {
			writeAppError(w, apperrors.NewForbiddenError("Admin or agent role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext retrieves the validated JWT claims, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*auth.Claims)
	return claims, ok
}
