// Package gateway submits finalized tax returns to the tax authority. The
// authority answers synchronously with a submission id; acceptance or
// rejection arrives later through the callback the lifecycle service
// exposes.
package gateway

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
	"github.com/semubook/semubook/internal/taxreturn"
)

// Client posts return payloads to the authority endpoint. Failures and
// timeouts surface as ExternalServiceError; the lifecycle service leaves
// the return's status untouched when submission fails.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient constructs the gateway client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type submitResponse struct {
	SubmissionID string `json:"submission_id"`
}

// Submit sends the return payload and yields the authority's submission id.
func (c *Client) Submit(ctx context.Context, ret taxreturn.Return) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"org_id":     ret.OrgID,
		"tax_type":   ret.TaxType,
		"tax_year":   ret.Year,
		"tax_period": ret.Period,
		"taxpayer":   ret.Taxpayer,
		"data":       ret.Data,
	})
	if err != nil {
		return "", fmt.Errorf("gateway: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/returns", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &shared.ExternalServiceError{Service: "tax-gateway", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(resp.Body)
	c.logger.Info("gateway.submit",
		"return_id", ret.ID.String(),
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return "", &shared.ExternalServiceError{Service: "tax-gateway", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	var decoded submitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &shared.ExternalServiceError{Service: "tax-gateway", Err: fmt.Errorf("decode response: %w", err)}
	}
	if decoded.SubmissionID == "" {
		return "", &shared.ExternalServiceError{Service: "tax-gateway", Err: fmt.Errorf("empty submission id")}
	}
	return decoded.SubmissionID, nil
}
