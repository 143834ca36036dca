package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator produces a model reply for a prompt using one API key.
// Implementations must return the raw reply text without post-processing.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// Client calls the Gemini API. A fresh genai client is built per call so
// key rotation never leaks state between credentials.
type Client struct {
	model           string
	temperature     float32
	maxOutputTokens int32
}

var _ Generator = (*Client)(nil)

// NewClient creates a Gemini client for the given model and generation
// settings.
func NewClient(model string, temperature float64, maxOutputTokens int) *Client {
	return &Client{
		model:           model,
		temperature:     float32(temperature),
		maxOutputTokens: int32(maxOutputTokens),
	}
}

// Generate sends the prompt and returns the reply text.
func (c *Client) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", errors.New("gemini api key required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	result, err := client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(c.temperature),
			MaxOutputTokens: c.maxOutputTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from gemini")
	}
	return text, nil
}

// Ping issues a minimal generation to verify a key works.
func (c *Client) Ping(ctx context.Context, apiKey string) error {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return fmt.Errorf("create gemini client: %w", err)
	}
	result, err := client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text("Olá"),
		&genai.GenerateContentConfig{MaxOutputTokens: 5},
	)
	if err != nil {
		return err
	}
	if strings.TrimSpace(result.Text()) == "" {
		return errors.New("empty response from gemini")
	}
	return nil
}
