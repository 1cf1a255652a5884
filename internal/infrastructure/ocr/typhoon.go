// Package ocr turns a page image into markdown text via the OpenTyphoon OCR
// endpoint, which speaks the OpenAI chat-completions protocol with image
// parts.
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL = "https://api.opentyphoon.ai/v1"
	defaultModel   = "typhoon-ocr-preview"
	maxAttempts    = 3

	// Prompt of the "default" OCR task: return the page as markdown.
	ocrPrompt = "Below is an image of a document page. " +
		"Return the markdown representation of this document, presenting tables in markdown format as they naturally appear.\n" +
		"Return your output as markdown, with no extra explanations."
)

// Config holds the Typhoon OCR client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client performs OCR through the Typhoon endpoint.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates an OCR client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
	}
}

// RecognizePage OCRs one page image and returns its markdown text.
func (c *Client) RecognizePage(ctx context.Context, imagePath string, mimeType string) (string, error) {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("ocr: read page image: %w", err)
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw))

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: ocrPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
		Temperature: 0.1,
		MaxTokens:   4096,
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("ocr: empty response from model")
			}
			return resp.Choices[0].Message.Content, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return "", fmt.Errorf("ocr: recognition failed after %d attempts: %w", maxAttempts, lastErr)
}
