package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

// TokenHeader carries the credential on privileged calls.
const TokenHeader = "token"

const maxBodyBytes = 1 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

type messagePayload struct {
	Message string `json:"message"`
}

// Do sends one request and decodes a 2xx body into out when out is non-nil.
// token is sent in the token header when non-empty. Every failure is an
// *Error: transport problems are ErrNetwork, status codes are classified, and
// an undecodable 2xx body is ErrServer.
func (c *Client) Do(ctx context.Context, method, path, token string, body, out any) error {
	l := logging.FromContext(ctx).With("svc", "apiclient", "method", method, "path", path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: ErrServer, Message: "cannot encode request", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: ErrNetwork, Message: MsgServerError, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("api_request_failed", "reason", "transport", "error", err)
		return &Error{Kind: ErrNetwork, Message: MsgServerError, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		l.Warn("api_request_failed", "status", resp.StatusCode, "reason", "read body", "error", err)
		return &Error{Kind: ErrNetwork, Message: MsgServerError, Err: fmt.Errorf("read body: %w", err)}
	}

	l.Debug("api_request_completed", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var p messagePayload
		_ = json.Unmarshal(raw, &p)
		apiErr := classify(resp.StatusCode, p.Message)
		l.Warn("api_request_rejected", "status", resp.StatusCode, "reason", apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		l.Error("api_request_failed", "status", resp.StatusCode, "reason", "malformed body", "error", err)
		return &Error{Kind: ErrServer, Status: resp.StatusCode, Message: MsgServerError, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
