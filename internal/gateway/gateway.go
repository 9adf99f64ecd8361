package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/utils"
)

//go:generate mockgen -destination=mock_gateway.go -package=gateway appraisells-auction/internal/gateway Gateway

// Gateway is the external payment processor. Both calls are expected to be
// idempotent on the gateway side for the same payment id.
type Gateway interface {
	Approve(ctx context.Context, paymentID string) error
	Complete(ctx context.Context, paymentID, txID string) error
}

const defaultBaseURL = "https://api.minepi.com"

// maxErrorBody bounds how much of a failed response is kept for logs.
const maxErrorBody = 512

// PiClient calls the Pi Network payments API.
type PiClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Gateway = (*PiClient)(nil)

// NewPiClient creates a client; an empty baseURL selects the public API.
func NewPiClient(baseURL, apiKey string, timeout time.Duration) *PiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &PiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Approve tells the gateway the server accepts the payment.
func (c *PiClient) Approve(ctx context.Context, paymentID string) error {
	return c.post(ctx, "approve", paymentID, struct{}{})
}

// Complete tells the gateway the blockchain transaction was observed.
func (c *PiClient) Complete(ctx context.Context, paymentID, txID string) error {
	return c.post(ctx, "complete", paymentID, map[string]string{"txid": txID})
}

func (c *PiClient) post(ctx context.Context, op, paymentID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("gateway %s: encode body: %w", op, err)
	}

	reqURL := fmt.Sprintf("%s/v2/payments/%s/%s", c.baseURL, url.PathEscape(paymentID), op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gateway %s: create request: %w", op, err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.Warn("gateway request failed", map[string]any{"op": op, "payment_id": paymentID, "error": err.Error()})
		return fmt.Errorf("gateway %s %s: %w: %w", op, paymentID, auctionerrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		utils.Warn("gateway rejected request", map[string]any{
			"op":         op,
			"payment_id": paymentID,
			"status":     resp.StatusCode,
			"body":       string(snippet),
		})
		return fmt.Errorf("gateway %s %s: unexpected status %d: %w", op, paymentID, resp.StatusCode, auctionerrors.ErrGatewayUnavailable)
	}

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
