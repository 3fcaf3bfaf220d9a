package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newGoTrueFake(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/v1/admin/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("apikey") != "service-key" {
			http.Error(w, `{"msg":"invalid api key"}`, http.StatusUnauthorized)
			return
		}
		var body struct {
			Email        string `json:"email"`
			Password     string `json:"password"`
			EmailConfirm bool   `json:"email_confirm"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"msg":"bad request"}`, http.StatusBadRequest)
			return
		}
		if !body.EmailConfirm {
			http.Error(w, `{"msg":"email_confirm missing"}`, http.StatusBadRequest)
			return
		}
		if body.Email == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"msg":"A user with this email address has already been registered"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"user-123","email":"` + body.Email + `"}`))
	})

	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "password" {
			http.Error(w, `{"error_description":"unsupported grant type"}`, http.StatusBadRequest)
			return
		}
		if r.Header.Get("apikey") != "anon-key" {
			http.Error(w, `{"msg":"invalid api key"}`, http.StatusUnauthorized)
			return
		}
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"msg":"bad request"}`, http.StatusBadRequest)
			return
		}
		if body.Password != "correct-horse" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"token-abc","token_type":"bearer","expires_in":3600}`))
	})

	return httptest.NewServer(mux)
}

func TestAdminCreateUser(t *testing.T) {
	server := newGoTrueFake(t)
	defer server.Close()

	p := NewProvider(server.URL, "anon-key", "service-key")
	id, err := p.AdminCreateUser(context.Background(), "new@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("AdminCreateUser error: %v", err)
	}
	if id != "user-123" {
		t.Fatalf("user id = %q, want user-123", id)
	}
}

func TestAdminCreateUserDuplicateEmailMessagePassthrough(t *testing.T) {
	server := newGoTrueFake(t)
	defer server.Close()

	p := NewProvider(server.URL, "anon-key", "service-key")
	_, err := p.AdminCreateUser(context.Background(), "taken@example.com", "correct-horse")
	if err == nil {
		t.Fatal("expected an error for a duplicate email")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %T: %v", err, err)
	}
	if provErr.Message != "A user with this email address has already been registered" {
		t.Fatalf("message = %q, want the provider's text verbatim", provErr.Message)
	}
	if provErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", provErr.StatusCode)
	}
}

func TestSignInWithPassword(t *testing.T) {
	server := newGoTrueFake(t)
	defer server.Close()

	p := NewProvider(server.URL, "anon-key", "service-key")
	session, err := p.SignInWithPassword(context.Background(), "new@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignInWithPassword error: %v", err)
	}
	if session.AccessToken != "token-abc" {
		t.Fatalf("access token = %q", session.AccessToken)
	}
	if session.TokenType != "bearer" {
		t.Fatalf("token type = %q", session.TokenType)
	}
}

func TestSignInWithPasswordBadCredentials(t *testing.T) {
	server := newGoTrueFake(t)
	defer server.Close()

	p := NewProvider(server.URL, "anon-key", "service-key")
	_, err := p.SignInWithPassword(context.Background(), "new@example.com", "wrong")
	if err == nil {
		t.Fatal("expected an error for bad credentials")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %T: %v", err, err)
	}
	if provErr.Message != "Invalid login credentials" {
		t.Fatalf("message = %q", provErr.Message)
	}
}

func TestParseProviderErrorFallsBackToRawBody(t *testing.T) {
	err := parseProviderError([]byte("upstream exploded"), http.StatusBadGateway)

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if provErr.Message != "upstream exploded" {
		t.Fatalf("message = %q", provErr.Message)
	}
}
