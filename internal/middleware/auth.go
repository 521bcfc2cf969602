package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/teerapatl/aqualog-api/internal/model"
	"github.com/teerapatl/aqualog-api/internal/repository"
	"github.com/teerapatl/aqualog-api/pkg/auth"
)

type contextKey struct{}

var userContextKey = contextKey{}

// RequireAuth gates protected routes behind a bearer token. It verifies the
// token, re-loads the user it points at and stores it in the request
// context. Every failure in that chain yields the same 401 response, so a
// caller cannot tell a bad token from a deleted account.
func RequireAuth(jwtAuth auth.JWTAuthenticator, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			userID, err := jwtAuth.VerifyToken(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := userRepo.GetUser(r.Context(), userID)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": "not authorized",
	})
}
