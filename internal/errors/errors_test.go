package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	t.Run("formats code and message", func(t *testing.T) {
		err := New(ErrCodeSessionNotFound, "Session not found or expired")
		assert.Equal(t, "SESSION_NOT_FOUND: Session not found or expired", err.Error())
	})

	t.Run("includes cause when present", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Upstream("openai", cause)
		assert.Contains(t, err.Error(), "UPSTREAM_FAILURE")
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Database(cause)

	assert.ErrorIs(t, err, cause)
}

func TestAsAppError(t *testing.T) {
	t.Run("extracts AppError from wrapped chain", func(t *testing.T) {
		inner := SessionNotFound()
		wrapped := fmt.Errorf("submit answer: %w", inner)

		appErr, ok := AsAppError(wrapped)
		assert.True(t, ok)
		assert.Equal(t, ErrCodeSessionNotFound, appErr.Code)
	})

	t.Run("returns false for plain errors", func(t *testing.T) {
		_, ok := AsAppError(errors.New("plain"))
		assert.False(t, ok)
	})
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeCredentialMissing, GetCode(CredentialMissing()))
	assert.Equal(t, ErrCodeSessionBusy, GetCode(SessionBusy()))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("anything")))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, ErrCodeUnsupportedProvider, UnsupportedProvider("mistral").Code)
	assert.Contains(t, UnsupportedProvider("mistral").Message, "mistral")
	assert.Equal(t, ErrCodeNotFound, NotFound("Interview").Code)
	assert.Equal(t, "Interview not found", NotFound("Interview").Message)
}
