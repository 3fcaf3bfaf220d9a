package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
)

func TestLetterCreateCarriesBackStoreRow(t *testing.T) {
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	client := newStoreFake(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/cover_letters" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer header = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if _, present := body["id"]; present {
			t.Errorf("id must be store-assigned, body = %v", body)
		}
		if body["company_name"] != "Acme" {
			t.Errorf("company_name = %v", body["company_name"])
		}
		_, _ = w.Write([]byte(`[{"id":"letter-1","user_id":"user-1","company_name":"Acme","job_title":"Engineer","job_description":"Build","content":"Dear team,","created_at":"2026-08-30T12:00:00Z"}]`))
	})

	repo := NewLetterRepository(client)
	letter := &domain.CoverLetter{
		UserID:         "user-1",
		CompanyName:    "Acme",
		JobTitle:       "Engineer",
		JobDescription: "Build",
		Content:        "Dear team,",
	}
	if err := repo.Create(context.Background(), letter); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if letter.ID != "letter-1" {
		t.Fatalf("letter id = %q, want store-assigned letter-1", letter.ID)
	}
	if !letter.CreatedAt.Equal(created) {
		t.Fatalf("created at = %v, want %v", letter.CreatedAt, created)
	}
}

func TestLetterCreateNoRowReturned(t *testing.T) {
	client := newStoreFake(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	repo := NewLetterRepository(client)
	err := repo.Create(context.Background(), &domain.CoverLetter{UserID: "user-1"})
	if err == nil {
		t.Fatal("expected an error when the store returns no row")
	}
}

func TestLetterListOrdersNewestFirst(t *testing.T) {
	client := newStoreFake(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("user_id"); got != "eq.user-1" {
			t.Errorf("user_id filter = %q", got)
		}
		if got := q.Get("order"); got != "created_at.desc" {
			t.Errorf("order = %q", got)
		}
		_, _ = w.Write([]byte(`[
			{"id":"b","user_id":"user-1","company_name":"Globex","job_title":"","job_description":"","content":"","created_at":"2026-08-30T12:00:00Z"},
			{"id":"a","user_id":"user-1","company_name":"Acme","job_title":"","job_description":"","content":"","created_at":"2026-08-29T12:00:00Z"}
		]`))
	})

	repo := NewLetterRepository(client)
	letters, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(letters) != 2 || letters[0].ID != "b" || letters[1].ID != "a" {
		t.Fatalf("letters = %+v", letters)
	}
}

func TestLetterGetByIDScopesToUser(t *testing.T) {
	client := newStoreFake(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("id"); got != "eq.letter-1" {
			t.Errorf("id filter = %q", got)
		}
		if got := q.Get("user_id"); got != "eq.user-1" {
			t.Errorf("user_id filter = %q", got)
		}
		_, _ = w.Write([]byte(`{"id":"letter-1","user_id":"user-1","company_name":"Acme","job_title":"Engineer","job_description":"Build","content":"Dear team,","created_at":"2026-08-30T12:00:00Z"}`))
	})

	repo := NewLetterRepository(client)
	letter, err := repo.GetByID(context.Background(), "user-1", "letter-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if letter.ID != "letter-1" || letter.CompanyName != "Acme" {
		t.Fatalf("letter = %+v", letter)
	}
}

func TestLetterGetByIDZeroRowsIsNotFound(t *testing.T) {
	client := newStoreFake(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = w.Write([]byte(`{"message":"JSON object requested, multiple (or no) rows returned"}`))
	})

	repo := NewLetterRepository(client)
	_, err := repo.GetByID(context.Background(), "user-1", "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLetterCountUsesExactCountHeader(t *testing.T) {
	client := newStoreFake(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != "count=exact" {
			t.Errorf("Prefer header = %q", got)
		}
		if got := r.Header.Get("Range"); got != "0-0" {
			t.Errorf("Range header = %q", got)
		}
		if got := r.URL.Query().Get("created_at"); got != "" {
			t.Errorf("created_at filter = %q, want unset", got)
		}
		w.Header().Set("Content-Range", "0-0/42")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte(`[{"id":"a"}]`))
	})

	repo := NewLetterRepository(client)
	total, err := repo.CountByUser(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("CountByUser error: %v", err)
	}
	if total != 42 {
		t.Fatalf("total = %d, want 42", total)
	}
}

func TestLetterCountWithLowerBoundFilter(t *testing.T) {
	since := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	client := newStoreFake(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("created_at"); got != "gte.2026-08-17T00:00:00Z" {
			t.Errorf("created_at filter = %q", got)
		}
		w.Header().Set("Content-Range", "*/0")
		_, _ = w.Write([]byte(`[]`))
	})

	repo := NewLetterRepository(client)
	total, err := repo.CountByUser(context.Background(), "user-1", &since)
	if err != nil {
		t.Fatalf("CountByUser error: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
}

func TestTotalFromContentRangeMalformed(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Range", "bogus")
	if _, err := totalFromContentRange(header); err == nil {
		t.Fatal("expected an error for a malformed Content-Range")
	}
}
