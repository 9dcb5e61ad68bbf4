// Package client is a typed HTTP client for the endorsement server, for
// retail-trade frontends and settlement services that need endorsements or
// payment-in-lieu approvals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/DFlowProtocol/endorsement-server/pkg/endorsement"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

type endorseResponse struct {
	RequestID   string                   `json:"request_id"`
	Endorsed    bool                     `json:"endorsed"`
	Endorsement *endorsement.Endorsement `json:"endorsement"`
}

type approvalResponse struct {
	RequestID string `json:"request_id"`
	Approved  bool   `json:"approved"`
	Approval  string `json:"approval"`
}

type endorsementKeyResponse struct {
	RequestID      string `json:"request_id"`
	EndorsementKey string `json:"endorsementKey"`
}

// RequestEndorsement submits an endorsement request and returns the signed
// endorsement. Validation failures, rate limiting, and transport failures all
// surface as errors carrying the server's error body.
func (c *Client) RequestEndorsement(ctx context.Context, req endorsement.EndorsementRequest) (*endorsement.Endorsement, error) {
	out, err := postJSON[endorseResponse](c, ctx, "/endorsement", req)
	if err != nil {
		return nil, err
	}
	if !out.Endorsed || out.Endorsement == nil {
		return nil, fmt.Errorf("server returned no endorsement")
	}
	return out.Endorsement, nil
}

// RequestPaymentInLieuApproval submits a payment-in-lieu token and returns
// the authority's approval signature (base64).
func (c *Client) RequestPaymentInLieuApproval(ctx context.Context, token endorsement.PaymentInLieuToken) (string, error) {
	out, err := postJSON[approvalResponse](c, ctx, "/payment-in-lieu/approval", token)
	if err != nil {
		return "", err
	}
	if !out.Approved {
		return "", fmt.Errorf("server returned no approval")
	}
	return out.Approval, nil
}

// EndorsementKey fetches the authority's base58 public key.
func (c *Client) EndorsementKey(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/endorsement-key", nil)
	if err != nil {
		return "", err
	}
	out, err := doJSON[endorsementKeyResponse](c, req)
	if err != nil {
		return "", err
	}
	return out.EndorsementKey, nil
}

func postJSON[T any](c *Client, ctx context.Context, path string, in any) (*T, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON[T](c, req)
}

func doJSON[T any](c *Client, req *http.Request) (*T, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, fmt.Errorf("http %d: %v", resp.StatusCode, errBody)
	}
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
