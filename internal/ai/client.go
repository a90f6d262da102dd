package ai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var ErrNotConfigured = errors.New("ai: no api key configured")

// Client wraps the OpenAI chat completion API. A client without an API key is
// valid; it just reports unavailable, and callers degrade to the fallback path.
type Client struct {
	api        openai.Client
	model      string
	configured bool
}

func New(apiKey, model string) *Client {
	c := &Client{
		model:      model,
		configured: strings.TrimSpace(apiKey) != "",
	}
	if c.configured {
		c.api = openai.NewClient(option.WithAPIKey(apiKey))
	}
	return c
}

// Available reports whether the client is configured. This is a precondition
// check, distinct from a call failing at runtime.
func (c *Client) Available() bool {
	return c != nil && c.configured
}

func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if !c.Available() {
		return "", ErrNotConfigured
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(1000),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ai: completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
