package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
)

const lettersTable = "cover_letters"

type letterRow struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CompanyName    string    `json:"company_name"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r letterRow) toDomain() domain.CoverLetter {
	return domain.CoverLetter{
		ID:             r.ID,
		UserID:         r.UserID,
		CompanyName:    r.CompanyName,
		JobTitle:       r.JobTitle,
		JobDescription: r.JobDescription,
		Content:        r.Content,
		CreatedAt:      r.CreatedAt,
	}
}

type LetterRepository struct {
	client *Client
}

func NewLetterRepository(client *Client) repository.LetterRepository {
	return &LetterRepository{client: client}
}

// Init is a no-op: the hosted schema is managed in the provider's dashboard.
func (r *LetterRepository) Init(ctx context.Context) error {
	return nil
}

func (r *LetterRepository) Create(ctx context.Context, letter *domain.CoverLetter) error {
	payload := map[string]any{
		"user_id":         letter.UserID,
		"company_name":    letter.CompanyName,
		"job_title":       letter.JobTitle,
		"job_description": letter.JobDescription,
		"content":         letter.Content,
	}

	res, err := r.client.do(ctx, http.MethodPost, lettersTable, nil, payload, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return fmt.Errorf("insert cover letter: %w", err)
	}

	var rows []letterRow
	if err := json.Unmarshal(res.body, &rows); err != nil {
		return fmt.Errorf("decode inserted cover letter: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("insert cover letter: store returned no row")
	}

	// Carry back the store-assigned id and timestamp.
	letter.ID = rows[0].ID
	letter.CreatedAt = rows[0].CreatedAt
	return nil
}

func (r *LetterRepository) ListByUser(ctx context.Context, userID string) ([]domain.CoverLetter, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)
	query.Set("order", "created_at.desc")

	res, err := r.client.do(ctx, http.MethodGet, lettersTable, query, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list cover letters: %w", err)
	}

	var rows []letterRow
	if err := json.Unmarshal(res.body, &rows); err != nil {
		return nil, fmt.Errorf("decode cover letters: %w", err)
	}

	letters := make([]domain.CoverLetter, len(rows))
	for i := range rows {
		letters[i] = rows[i].toDomain()
	}
	return letters, nil
}

func (r *LetterRepository) GetByID(ctx context.Context, userID, id string) (*domain.CoverLetter, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id)
	query.Set("user_id", "eq."+userID)

	res, err := r.client.do(ctx, http.MethodGet, lettersTable, query, nil, map[string]string{
		"Accept": acceptSingleObject,
	})
	if err != nil {
		if isZeroRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("fetch cover letter: %w", err)
	}

	var row letterRow
	if err := json.Unmarshal(res.body, &row); err != nil {
		return nil, fmt.Errorf("decode cover letter: %w", err)
	}
	letter := row.toDomain()
	return &letter, nil
}

func (r *LetterRepository) CountByUser(ctx context.Context, userID string, since *time.Time) (int, error) {
	query := url.Values{}
	query.Set("select", "id")
	query.Set("user_id", "eq."+userID)
	if since != nil {
		query.Set("created_at", "gte."+since.UTC().Format(time.RFC3339))
	}

	res, err := r.client.do(ctx, http.MethodGet, lettersTable, query, nil, map[string]string{
		"Prefer": "count=exact",
		"Range":  "0-0",
	})
	if err != nil {
		return 0, fmt.Errorf("count cover letters: %w", err)
	}

	total, err := totalFromContentRange(res.header)
	if err != nil {
		return 0, fmt.Errorf("count cover letters: %w", err)
	}
	return total, nil
}
