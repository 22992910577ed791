// Package provider abstracts the interchangeable generative-text
// backends behind a single completion call. Every adapter is stateless
// and single-shot: the credential travels with each call, conversational
// context is re-sent as prompt text, and nothing is retried.
package provider

import (
	"context"
	"strings"

	apperrors "github.com/prepmate/interview-server-go/internal/errors"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
)

// DefaultProvider is used when a request names no provider.
const DefaultProvider = ProviderGemini

// Completer turns a (system prompt, user prompt) pair into one text
// completion. Backend-specific failures surface as UPSTREAM_FAILURE.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt, credential string) (string, error)
}

// New returns the adapter for the named backend.
func New(p Provider) (Completer, error) {
	switch p {
	case ProviderOpenAI:
		return &openAICompleter{}, nil
	case ProviderGemini:
		return &geminiCompleter{}, nil
	case ProviderClaude:
		return &claudeCompleter{}, nil
	default:
		return nil, apperrors.UnsupportedProvider(string(p))
	}
}

// Parse normalizes a caller-supplied provider id. An empty id selects the
// default; unknown ids are rejected here rather than at call time.
func Parse(s string) (Provider, error) {
	if s == "" {
		return DefaultProvider, nil
	}
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderOpenAI, ProviderGemini, ProviderClaude:
		return p, nil
	default:
		return "", apperrors.UnsupportedProvider(s)
	}
}
