package provider

import (
	"context"

	"github.com/tmc/langchaingo/llms/anthropic"

	apperrors "github.com/prepmate/interview-server-go/internal/errors"
)

const claudeModel = "claude-3-haiku-20240307"

type claudeCompleter struct{}

func (c *claudeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt, credential string) (string, error) {
	llm, err := anthropic.New(
		anthropic.WithToken(credential),
		anthropic.WithModel(claudeModel),
	)
	if err != nil {
		return "", apperrors.Upstream("claude", err)
	}

	return generate(ctx, "claude", llm, systemPrompt, userPrompt)
}
