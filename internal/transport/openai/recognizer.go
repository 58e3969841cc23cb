package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/newslens/internal/domain"
)

const recognizerPrompt = `You are a named-entity recognizer for news articles.
Return a JSON object {"entities":[{"text":"...","label":"..."}]} listing EVERY mention
in order of appearance, repeated mentions included. Copy the span exactly as written.
Use only these labels: PERSON, ORG, GPE, PRODUCT, EVENT, LOC.`

// Recognizer is a named-entity recognizer backed by a chat completion model.
type Recognizer struct {
	client *openai.Client
	model  string
}

// NewRecognizer creates a chat-based recognizer.
func NewRecognizer(apiKey, baseURL, model string) *Recognizer {
	return &Recognizer{client: newClient(apiKey, baseURL), model: model}
}

// Recognize returns entity mentions in text.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]domain.EntitySpan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: recognizerPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", parseAPIError(err, domain.ErrModelUnavailable))
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("recognize: empty completion: %w", domain.ErrEngineFailure)
	}

	var parsed struct {
		Entities []domain.EntitySpan `json:"entities"`
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("recognize: decode completion: %v: %w", err, domain.ErrEngineFailure)
	}
	for i := range parsed.Entities {
		parsed.Entities[i].Label = strings.ToUpper(strings.TrimSpace(parsed.Entities[i].Label))
	}
	return parsed.Entities, nil
}

// HealthCheck verifies API availability via ListModels.
func (r *Recognizer) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
