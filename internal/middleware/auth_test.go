package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepmate/interview-server-go/internal/model"
	"github.com/prepmate/interview-server-go/internal/service"
)

type stubUserRepo struct {
	user *model.User
}

func (r *stubUserRepo) Create(_ context.Context, params model.CreateUserParams) (*model.User, error) {
	r.user = &model.User{
		ID:           params.ID,
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now(),
	}
	return r.user, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if r.user != nil && r.user.Email == email {
		return r.user, nil
	}
	return nil, nil
}

func (r *stubUserRepo) UpdateAPIKey(_ context.Context, id string, encrypted string) (*model.User, error) {
	return r.user, nil
}

func setupAuth(t *testing.T) (*AuthMiddleware, string, *model.User) {
	t.Helper()
	authService := service.NewAuthService(&stubUserRepo{}, "middleware-test-secret-32-chars!!!", "")
	result, err := authService.Signup(context.Background(), service.SignupParams{
		Email:    "dev@example.com",
		Name:     "Dev",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	return NewAuthMiddleware(authService), result.Token, result.User
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := GetUser(r.Context()); user != nil {
			w.Write([]byte(user.ID))
			return
		}
		w.Write([]byte("anonymous"))
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid bearer token attaches user", func(t *testing.T) {
		mw, token, user := setupAuth(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.Handler(echoUser()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, rec.Body.String())
	})

	t.Run("token via query parameter", func(t *testing.T) {
		mw, token, user := setupAuth(t)

		req := httptest.NewRequest(http.MethodGet, "/?token="+token, nil)
		rec := httptest.NewRecorder()
		mw.Handler(echoUser()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, rec.Body.String())
	})

	t.Run("missing token rejected", func(t *testing.T) {
		mw, _, _ := setupAuth(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		mw.Handler(echoUser()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		mw, _, _ := setupAuth(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		mw.Handler(echoUser()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("optional handler passes anonymous requests through", func(t *testing.T) {
		mw, _, _ := setupAuth(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		mw.OptionalHandler(echoUser()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("optional handler still rejects a bad token", func(t *testing.T) {
		mw, _, _ := setupAuth(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		mw.OptionalHandler(echoUser()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestBodyLimitMiddleware(t *testing.T) {
	t.Run("rejects oversized declared content length", func(t *testing.T) {
		mw := NewBodyLimitMiddleware(16)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.ContentLength = 1024
		rec := httptest.NewRecorder()
		mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("passes small bodies", func(t *testing.T) {
		mw := NewBodyLimitMiddleware(1024)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		called := false
		mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})).ServeHTTP(rec, req)

		assert.True(t, called)
	})
}
