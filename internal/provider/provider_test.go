package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/prepmate/interview-server-go/internal/errors"
)

func TestNew(t *testing.T) {
	t.Run("returns an adapter per supported backend", func(t *testing.T) {
		for _, p := range []Provider{ProviderOpenAI, ProviderGemini, ProviderClaude} {
			completer, err := New(p)
			require.NoError(t, err, "provider %s", p)
			assert.NotNil(t, completer)
		}
	})

	t.Run("rejects unknown backends", func(t *testing.T) {
		_, err := New(Provider("mistral"))
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeUnsupportedProvider, apperrors.GetCode(err))
	})
}

func TestParse(t *testing.T) {
	t.Run("empty selects the default", func(t *testing.T) {
		p, err := Parse("")
		require.NoError(t, err)
		assert.Equal(t, DefaultProvider, p)
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		p, err := Parse("  OpenAI ")
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, p)
	})

	t.Run("rejects unknown ids", func(t *testing.T) {
		_, err := Parse("cohere")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeUnsupportedProvider, apperrors.GetCode(err))
	})
}
