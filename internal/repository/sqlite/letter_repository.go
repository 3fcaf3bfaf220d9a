package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
)

const createLettersTable = `
CREATE TABLE IF NOT EXISTS cover_letters (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	company_name TEXT NOT NULL,
	job_title TEXT NOT NULL,
	job_description TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cover_letters_user_created
	ON cover_letters (user_id, created_at DESC);
`

type LetterRepository struct {
	db *sql.DB
}

func NewLetterRepository(db *sql.DB) repository.LetterRepository {
	return &LetterRepository{db: db}
}

func (r *LetterRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createLettersTable); err != nil {
		return fmt.Errorf("create cover_letters table: %w", err)
	}
	return nil
}

func (r *LetterRepository) Create(ctx context.Context, letter *domain.CoverLetter) error {
	if letter.ID == "" {
		letter.ID = uuid.NewString()
	}
	if letter.CreatedAt.IsZero() {
		letter.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO cover_letters (id, user_id, company_name, job_title, job_description, content, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		letter.ID,
		letter.UserID,
		letter.CompanyName,
		letter.JobTitle,
		letter.JobDescription,
		letter.Content,
		letter.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cover letter: %w", err)
	}
	return nil
}

func (r *LetterRepository) ListByUser(ctx context.Context, userID string) ([]domain.CoverLetter, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, company_name, job_title, job_description, content, created_at
FROM cover_letters
WHERE user_id = ?
ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cover letters: %w", err)
	}
	defer rows.Close()

	letters := make([]domain.CoverLetter, 0)
	for rows.Next() {
		var letter domain.CoverLetter
		if err := rows.Scan(
			&letter.ID,
			&letter.UserID,
			&letter.CompanyName,
			&letter.JobTitle,
			&letter.JobDescription,
			&letter.Content,
			&letter.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cover letter: %w", err)
		}
		letters = append(letters, letter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cover letters: %w", err)
	}
	return letters, nil
}

func (r *LetterRepository) GetByID(ctx context.Context, userID, id string) (*domain.CoverLetter, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, company_name, job_title, job_description, content, created_at
FROM cover_letters
WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	var letter domain.CoverLetter
	if err := row.Scan(
		&letter.ID,
		&letter.UserID,
		&letter.CompanyName,
		&letter.JobTitle,
		&letter.JobDescription,
		&letter.Content,
		&letter.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan cover letter: %w", err)
	}
	return &letter, nil
}

func (r *LetterRepository) CountByUser(ctx context.Context, userID string, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM cover_letters WHERE user_id = ?`
	args := []any{userID}
	if since != nil {
		query += ` AND created_at >= ?`
		args = append(args, since.UTC())
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cover letters: %w", err)
	}
	return count, nil
}
