package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/prepmate/interview-server-go/internal/audit"
	apperrors "github.com/prepmate/interview-server-go/internal/errors"
	"github.com/prepmate/interview-server-go/internal/httputil"
	"github.com/prepmate/interview-server-go/internal/model"
	"github.com/prepmate/interview-server-go/internal/service"
)

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(ctx context.Context) *model.User {
	if user, ok := ctx.Value(UserContextKey).(*model.User); ok {
		return user
	}
	return nil
}

type AuthMiddleware struct {
	authService *service.AuthService
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Handler rejects requests without a valid bearer token and puts the
// authenticated user on the request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticate(r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalHandler attaches the user when a valid token is present but
// lets anonymous requests through. Interview routes work without an
// account; history is then attributed to the shared default user.
func (m *AuthMiddleware) OptionalHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if extractToken(r) == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.authenticate(r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*model.User, error) {
	token := extractToken(r)
	if token == "" {
		return nil, apperrors.Unauthorized("Missing authentication token")
	}

	userID, err := m.authService.VerifyToken(token)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthFailure})
		return nil, err
	}

	user, err := m.authService.GetUser(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func extractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
