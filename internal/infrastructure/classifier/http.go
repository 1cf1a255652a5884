// Package classifier calls the category model server, a small sidecar that
// hosts the trained main/sub classification models behind a JSON endpoint.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/keingkrai/process-tax-ocr/internal/domain/enum"
)

// Client is an HTTP client for the model server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a classifier client for the given model-server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type predictRequest struct {
	Title string `json:"title"`
}

type predictResponse struct {
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
}

// Classify predicts the deduction category and sub-category for a document
// title. An unrecognized sub-category comes back as the unknown label, same
// as the model server does for titles outside its vocabulary.
func (c *Client) Classify(ctx context.Context, title string) (enum.Category, enum.SubCategory, error) {
	body, err := json.Marshal(predictRequest{Title: title})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("classifier: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("classifier: model server returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("classifier: decode response: %w", err)
	}

	sub := enum.SubCategory(out.SubCategory)
	if sub == "" {
		sub = enum.SubCategoryUnknown
	}
	return enum.Category(out.Category), sub, nil
}
