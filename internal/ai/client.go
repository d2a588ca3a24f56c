// Package ai wraps the external OCR/classification collaborator. The core
// only consumes its output; the recognition models themselves live behind
// this HTTP boundary.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/semubook/semubook/internal/shared"
)

// RecognizeResult is the OCR output for one receipt image.
type RecognizeResult struct {
	Merchant    string            `json:"merchant"`
	TotalAmount string            `json:"total_amount"`
	TaxAmount   string            `json:"tax_amount"`
	IssuedAt    time.Time         `json:"issued_at"`
	Confidence  float64           `json:"confidence"`
	Fields      map[string]string `json:"fields"`
}

// ClassifyResult is the suggested expense classification for extracted
// receipt fields.
type ClassifyResult struct {
	AccountCode string  `json:"account_code"`
	TaxCategory string  `json:"tax_category"`
	Confidence  float64 `json:"confidence"`
}

// Client talks JSON over HTTP to the AI service. Every call is bounded by
// the underlying http.Client timeout; timeouts surface as
// ExternalServiceError and are never retried here.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient constructs the AI client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Recognize extracts transaction facts from a stored receipt document.
func (c *Client) Recognize(ctx context.Context, receiptID, fileName string) (RecognizeResult, error) {
	var result RecognizeResult
	err := c.postJSON(ctx, "/v1/recognize", map[string]string{
		"receipt_id": receiptID,
		"file_name":  fileName,
	}, &result)
	if err != nil {
		return RecognizeResult{}, err
	}
	return result, nil
}

// Classify suggests an expense account for extracted receipt fields.
func (c *Client) Classify(ctx context.Context, merchant string, fields map[string]string) (ClassifyResult, error) {
	var result ClassifyResult
	err := c.postJSON(ctx, "/v1/classify", map[string]any{
		"merchant": merchant,
		"fields":   fields,
	}, &result)
	if err != nil {
		return ClassifyResult{}, err
	}
	return result, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	start := time.Now()
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("ai: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &shared.ExternalServiceError{Service: "ai", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(resp.Body)
	c.logger.Info("ai.response",
		"path", path,
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return &shared.ExternalServiceError{Service: "ai", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &shared.ExternalServiceError{Service: "ai", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
