package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/aphorium/aphorium/core"
)

var languageNames = map[core.Language]string{
	core.LanguageEN: "English",
	core.LanguageRU: "Russian",
}

// LLMProvider translates through an OpenAI-compatible chat API. It works with
// any local or hosted endpoint that speaks the protocol.
type LLMProvider struct {
	client llms.Model
}

var _ Provider = (*LLMProvider)(nil)

// NewLLMProvider creates a provider for an OpenAI-compatible endpoint.
// Use "none" as token for local services that don't require authentication.
func NewLLMProvider(baseURL, token, model string) (*LLMProvider, error) {
	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(token),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &LLMProvider{client: client}, nil
}

// Name identifies the provider in logs.
func (p *LLMProvider) Name() string {
	return "llm"
}

// Translate asks the model for a bare translation of the text.
func (p *LLMProvider) Translate(ctx context.Context, text string, from, to core.Language) (string, error) {
	system := fmt.Sprintf(
		"You are a translator. Translate the user's text from %s to %s. "+
			"Reply with the translation only, no commentary, no quotation marks.",
		languageNames[from], languageNames[to])

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	response, err := p.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrProviderUnavailable)
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
