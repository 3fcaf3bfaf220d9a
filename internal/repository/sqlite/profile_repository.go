package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
)

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	name TEXT,
	skills TEXT NOT NULL DEFAULT '[]',
	summary TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Create(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (user_id, skills, created_at, updated_at)
VALUES (?, '[]', ?, ?)`,
		userID, now, now,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("profile already exists: %w", err)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT user_id, name, skills, summary
FROM profiles
WHERE user_id = ?`,
		userID,
	)
	return scanProfile(row)
}

func (r *ProfileRepository) Update(ctx context.Context, userID string, params repository.UpdateProfileParams) (*domain.Profile, error) {
	if params.Empty() {
		return r.GetByUser(ctx, userID)
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if params.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *params.Name)
	}
	if params.Skills != nil {
		encoded, err := json.Marshal(*params.Skills)
		if err != nil {
			return nil, fmt.Errorf("encode skills: %w", err)
		}
		sets = append(sets, "skills = ?")
		args = append(args, string(encoded))
	}
	if params.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, *params.Summary)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, userID)

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE profiles SET %s WHERE user_id = ?", strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update profile rows affected: %w", err)
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}

	return r.GetByUser(ctx, userID)
}

func scanProfile(row interface {
	Scan(dest ...any) error
}) (*domain.Profile, error) {
	var (
		profile domain.Profile
		name    sql.NullString
		skills  string
		summary sql.NullString
	)
	if err := row.Scan(&profile.UserID, &name, &skills, &summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	if name.Valid {
		profile.Name = &name.String
	}
	if summary.Valid {
		profile.Summary = &summary.String
	}
	profile.Skills = []string{}
	if skills != "" {
		if err := json.Unmarshal([]byte(skills), &profile.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
	}
	return &profile, nil
}
