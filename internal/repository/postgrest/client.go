package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a minimal PostgREST client scoped to the service role key. The
// hosted store is only ever reached through the repositories in this package,
// which always filter by the authenticated user id.
type Client struct {
	restURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		restURL: strings.TrimRight(baseURL, "/") + "/rest/v1",
		apiKey:  serviceKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Error is a transport or query failure reported by the hosted store.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("store request failed (%d): %s", e.StatusCode, e.Message)
}

type result struct {
	body       []byte
	statusCode int
	header     http.Header
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, payload any, headers map[string]string) (*result, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	reqURL := c.restURL + "/" + url.PathEscape(table)
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("build store request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read store response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(respBody, resp.StatusCode)
	}

	return &result{body: respBody, statusCode: resp.StatusCode, header: resp.Header}, nil
}

// parseError decodes a PostgREST error body, falling back to the raw body.
func parseError(body []byte, statusCode int) error {
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return &Error{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
	}
	return &Error{StatusCode: statusCode, Message: errResp.Message}
}

// totalFromContentRange extracts the row count from a Content-Range header
// such as "0-0/42" or "*/0".
func totalFromContentRange(header http.Header) (int, error) {
	contentRange := header.Get("Content-Range")
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 || idx == len(contentRange)-1 {
		return 0, fmt.Errorf("missing count in Content-Range %q", contentRange)
	}
	total, err := strconv.Atoi(contentRange[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("parse Content-Range %q: %w", contentRange, err)
	}
	return total, nil
}
