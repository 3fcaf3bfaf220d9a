package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider talks to the identity provider's auth API (Supabase GoTrue).
// Account creation uses the service role key; password sign-in uses the anon
// key. The provider owns all credential storage and password policy.
type Provider struct {
	authURL    string
	anonKey    string
	serviceKey string
	httpc      *http.Client
}

func NewProvider(baseURL, anonKey, serviceKey string) *Provider {
	return &Provider{
		authURL:    strings.TrimRight(baseURL, "/") + "/auth/v1",
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Session is the token bundle returned by a successful sign-in.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ProviderError carries the provider's message verbatim so handlers can
// surface it to the caller.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// AdminCreateUser creates a confirmed account and returns the new user id.
func (p *Provider) AdminCreateUser(ctx context.Context, email, password string) (string, error) {
	payload := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}

	body, err := p.post(ctx, "/admin/users", payload, p.serviceKey)
	if err != nil {
		return "", err
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("decode created user: %w", err)
	}
	if user.ID == "" {
		return "", fmt.Errorf("provider returned no user id")
	}
	return user.ID, nil
}

// SignInWithPassword exchanges credentials for an access token.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}

	body, err := p.post(ctx, "/token?grant_type=password", payload, p.anonKey)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session.TokenType == "" {
		session.TokenType = "bearer"
	}
	return &session, nil
}

func (p *Provider) post(ctx context.Context, path string, payload any, key string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseProviderError(body, resp.StatusCode)
	}
	return body, nil
}

// parseProviderError decodes the several error shapes GoTrue responds with.
func parseProviderError(body []byte, statusCode int) error {
	var errResp struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorField       string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &errResp); err == nil {
		for _, candidate := range []string{errResp.Msg, errResp.Message, errResp.ErrorDescription, errResp.ErrorField} {
			if candidate != "" {
				msg = candidate
				break
			}
		}
	}

	return &ProviderError{StatusCode: statusCode, Message: msg}
}
