// File: internal/oracle/client.go
package oracle

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/xkilldash9x/usher/internal/config"
)

// Client is the reasoning-service contract: one text prompt plus one
// optional image in, free-form text out. A nil Client means escalation is
// disabled, which is a valid state rather than an error.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, image []byte) (string, error)
}

// GeminiClient talks to the Gemini API via google.golang.org/genai.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewClient builds the configured oracle client, or nil when no API key
// is present (escalation disabled).
func NewClient(ctx context.Context, cfg config.OracleConfig, logger *zap.Logger) (Client, error) {
	if cfg.APIKey == "" {
		logger.Info("No oracle API key configured; escalation disabled")
		return nil, nil
	}
	return NewGeminiClient(ctx, cfg, logger)
}

// NewGeminiClient creates a Gemini-backed oracle client.
func NewGeminiClient(ctx context.Context, cfg config.OracleConfig, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger.Info("Oracle client initialized", zap.String("model", cfg.Model))
	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		logger: logger.Named("gemini"),
	}, nil
}

// GenerateContent submits the prompt and image and returns the model's
// raw text. Callers treat any error as "no correction available".
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, image []byte) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if len(image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(image, "image/png"))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("oracle request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("oracle returned an empty response")
	}
	c.logger.Debug("Oracle responded", zap.Int("response_length", len(text)))
	return text, nil
}
