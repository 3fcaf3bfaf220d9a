package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
)

const profilesTable = "profiles"

// acceptSingleObject makes PostgREST return exactly one row or fail with 406.
const acceptSingleObject = "application/vnd.pgrst.object+json"

type profileRow struct {
	UserID  string   `json:"user_id"`
	Name    *string  `json:"name"`
	Skills  []string `json:"skills"`
	Summary *string  `json:"summary"`
}

func (r profileRow) toDomain() *domain.Profile {
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	return &domain.Profile{
		UserID:  r.UserID,
		Name:    r.Name,
		Skills:  skills,
		Summary: r.Summary,
	}
}

type ProfileRepository struct {
	client *Client
}

func NewProfileRepository(client *Client) repository.ProfileRepository {
	return &ProfileRepository{client: client}
}

// Init is a no-op: the hosted schema is managed in the provider's dashboard.
func (r *ProfileRepository) Init(ctx context.Context) error {
	return nil
}

func (r *ProfileRepository) Create(ctx context.Context, userID string) error {
	payload := map[string]any{
		"user_id": userID,
		"skills":  []string{},
	}
	_, err := r.client.do(ctx, http.MethodPost, profilesTable, nil, payload, map[string]string{
		"Prefer": "return=minimal",
	})
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)

	res, err := r.client.do(ctx, http.MethodGet, profilesTable, query, nil, map[string]string{
		"Accept": acceptSingleObject,
	})
	if err != nil {
		if isZeroRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	var row profileRow
	if err := json.Unmarshal(res.body, &row); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProfileRepository) Update(ctx context.Context, userID string, params repository.UpdateProfileParams) (*domain.Profile, error) {
	if params.Empty() {
		return r.GetByUser(ctx, userID)
	}

	payload := map[string]any{}
	if params.Name != nil {
		payload["name"] = *params.Name
	}
	if params.Skills != nil {
		payload["skills"] = *params.Skills
	}
	if params.Summary != nil {
		payload["summary"] = *params.Summary
	}

	query := url.Values{}
	query.Set("user_id", "eq."+userID)

	res, err := r.client.do(ctx, http.MethodPatch, profilesTable, query, payload, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	var rows []profileRow
	if err := json.Unmarshal(res.body, &rows); err != nil {
		return nil, fmt.Errorf("decode updated profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

// isZeroRows reports whether a single-object fetch matched no row.
func isZeroRows(err error) bool {
	var storeErr *Error
	return errors.As(err, &storeErr) &&
		(storeErr.StatusCode == http.StatusNotAcceptable || storeErr.StatusCode == http.StatusNotFound)
}
