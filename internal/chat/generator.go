// Package chat answers questions about the loaded analysis through a
// generative language model.
package chat

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrNoAPIKey is returned when the model client cannot be built.
var ErrNoAPIKey = errors.New("chat: API key is required")

// Generator produces one model reply. history holds earlier turns, oldest
// first, and does not include query.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []Message, query string) (string, error)
}

// GenAI is a Generator backed by the Gemini API.
type GenAI struct {
	client *genai.Client
	model  string
}

func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAI{client: client, model: model}, nil
}

func (g *GenAI) Generate(ctx context.Context, systemPrompt string, history []Message, query string) (string, error) {
	contents := Contents(history, query)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// Contents converts the conversation to model turns. Bot messages sent
// before the first user message are dropped so the turns start with the user.
func Contents(history []Message, query string) []*genai.Content {
	var out []*genai.Content
	for _, m := range history {
		switch m.Role {
		case RoleUser:
			out = append(out, genai.NewContentFromText(m.Content, genai.RoleUser))
		case RoleBot:
			if len(out) == 0 {
				continue
			}
			out = append(out, genai.NewContentFromText(m.Content, genai.RoleModel))
		}
	}
	return append(out, genai.NewContentFromText(query, genai.RoleUser))
}
