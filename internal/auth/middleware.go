package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var errMissingToken = errors.New("auth: missing bearer token")

// contextKey is an unexported type used for context keys in this package.
//
// context.WithValue takes any value as the key. A package-private key
// type means only this package can read or write the userID entry; a
// plain string key could be shadowed by any other package that happens
// to use the same string.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is a middleware that enforces authentication on
// protected routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header,
// validates it, and stores the user ID in the request context. If the
// header is missing or the token is invalid or expired, it returns
// 401 Unauthorized and stops the request chain.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			// Store the user ID in context so handlers can read it
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the
// request context.
//
// Returns (0, false) if the request is anonymous and (id, true) if the
// RequireAuth middleware validated a token for this request.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// extractUserID reads the bearer header and validates the token.
func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return 0, errMissingToken
	}

	return tokens.Validate(tokenStr)
}
