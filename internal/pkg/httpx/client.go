package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
)

const maxBodyBytes = 32 << 20

// Client performs single-attempt JSON requests. There are no retries: a
// failed call is reported to the caller, which decides what absence means.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func New(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: timeout,
		},
		userAgent: "yieldgate/1.0",
	}
}

// Request describes one outbound call.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string
	Body    any
}

// DoJSON sends req and decodes a 2xx JSON response into out.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	raw, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return apperrors.NewUpstream("upstream returned empty response", nil)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NewUpstream("decode upstream JSON", err)
	}
	return nil
}

// Do sends req and returns the raw 2xx response body.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrInternal, "build request", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, mapNetError(err)
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewUpstream("read upstream response", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperrors.NewUpstream("upstream rate limited request", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.NewUpstream("upstream authentication failed", nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, apperrors.NewUpstream(fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)
	}
	return buf, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}
	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

func mapNetError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewUpstream("upstream timeout", err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return apperrors.NewUpstream("upstream timeout", err)
	}
	return apperrors.NewUpstream("upstream request failed", err)
}
