package provider

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	apperrors "github.com/prepmate/interview-server-go/internal/errors"
)

const openAIModel = "gpt-3.5-turbo"

type openAICompleter struct{}

func (c *openAICompleter) Complete(ctx context.Context, systemPrompt, userPrompt, credential string) (string, error) {
	llm, err := openai.New(
		openai.WithToken(credential),
		openai.WithModel(openAIModel),
	)
	if err != nil {
		return "", apperrors.Upstream("openai", err)
	}

	return generate(ctx, "openai", llm, systemPrompt, userPrompt)
}

// generate runs the shared system+human message exchange for the
// langchaingo-backed adapters.
func generate(ctx context.Context, name string, llm llms.Model, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", apperrors.Upstream(name, err)
	}
	if len(response.Choices) == 0 {
		return "", apperrors.Upstream(name, nil).WithDetails("no response choices")
	}

	return response.Choices[0].Content, nil
}
