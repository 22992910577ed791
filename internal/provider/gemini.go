package provider

import (
	"context"

	"google.golang.org/genai"

	apperrors "github.com/prepmate/interview-server-go/internal/errors"
)

const geminiModel = "gemini-2.5-flash"

type geminiCompleter struct{}

func (c *geminiCompleter) Complete(ctx context.Context, systemPrompt, userPrompt, credential string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", apperrors.Upstream("gemini", err)
	}

	result, err := client.Models.GenerateContent(ctx, geminiModel, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	})
	if err != nil {
		return "", apperrors.Upstream("gemini", err)
	}
	if result == nil {
		return "", apperrors.Upstream("gemini", nil).WithDetails("empty result")
	}

	text, err := result.Text()
	if err != nil {
		return "", apperrors.Upstream("gemini", err)
	}
	if text == "" {
		return "", apperrors.Upstream("gemini", nil).WithDetails("empty completion")
	}

	return text, nil
}
