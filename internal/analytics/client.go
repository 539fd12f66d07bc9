package analytics

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"tender-reporter/internal/report"
)

// Client fetches the analytics payload for a report request. The
// interface exists so the worker pipeline can be tested without a
// live upstream.
type Client interface {
	FetchReport(ctx context.Context, req *report.Request) (*report.ReportInput, error)
}

// HTTPClient calls the upstream analytics service over one JSON POST.
// When a shared secret is configured, requests carry the same
// HMAC-SHA256 signature scheme our own API uses.
type HTTPClient struct {
	baseURL string
	secret  string
	client  *http.Client
}

// NewHTTPClient creates a client for the given base URL. secret may
// be empty when the upstream does not verify signatures.
func NewHTTPClient(baseURL, secret string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		secret:  secret,
		client:  &http.Client{Timeout: timeout},
	}
}

const analyticsPath = "/v1/analytics/report"

// FetchReport posts the request parameters and decodes the ReportInput
// response. The payload is normalized before return, so callers never
// see nil slices.
func (c *HTTPClient) FetchReport(ctx context.Context, r *report.Request) (*report.ReportInput, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analytics request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyticsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build analytics request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.secret != "" {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		mac := hmac.New(sha256.New, []byte(c.secret))
		mac.Write([]byte(req.Method + analyticsPath + string(body) + timestamp))
		req.Header.Set("X-Timestamp", timestamp)
		req.Header.Set("X-Signature", hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analytics request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analytics service returned %d: %s", resp.StatusCode, snippet)
	}

	var in report.ReportInput
	if err := json.NewDecoder(resp.Body).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode analytics response: %w", err)
	}
	in.Normalize()

	if in.Meta.GeneratedAt.IsZero() {
		in.Meta.GeneratedAt = time.Now()
	}
	if in.Meta.ParamsUsed.SellerName == "" {
		in.Meta.ParamsUsed = report.Params{
			SellerName:  r.SellerName,
			Department:  r.Department,
			OfferedItem: r.OfferedItem,
			Days:        r.Days,
			Limit:       r.Limit,
			Email:       r.Email,
		}
	}
	return &in, nil
}
