package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// ErrUnavailable means the generation collaborator is not configured or not
// reachable. Callers degrade to deterministic output and flag the missing
// narrative instead of fabricating one.
var ErrUnavailable = errors.New("generation service not configured")

// Client wraps the Gemini text generation API. The core treats it as an
// opaque text-in/text-out function.
type Client struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewClient creates a Gemini generation client. An empty API key yields a
// client whose Generate always returns ErrUnavailable; construction never
// fails for missing credentials so the orchestrator can still serve
// deterministic output.
func NewClient(ctx context.Context, apiKey, model string, log zerolog.Logger) (*Client, error) {
	c := &Client{
		model: model,
		log:   log.With().Str("client", "gemini").Logger(),
	}

	if apiKey == "" {
		c.log.Warn().Msg("GEMINI_API_KEY not set; narrative generation disabled")
		return c, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = gc
	c.log.Info().Str("model", model).Msg("Gemini client configured")
	return c, nil
}

// Model returns the configured generation model name.
func (c *Client) Model() string {
	return c.model
}

// Available reports whether narrative generation is configured.
func (c *Client) Available() bool {
	return c.client != nil
}

// Generate produces a free-text completion for the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", ErrUnavailable
	}

	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: 1024,
			Temperature:     genai.Ptr[float32](0.3),
		},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini returned an empty completion")
	}

	return text, nil
}
