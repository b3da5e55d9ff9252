package auth

import (
	"context"
	"net/http"
	"strings"
)

// RequireAuth wraps a handler so it only runs with a valid bearer token.
// The token's username is placed in the request context.
func (t *Tokens) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		username, err := t.Verify(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUsername, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
