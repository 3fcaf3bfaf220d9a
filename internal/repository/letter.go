package repository

import (
	"context"
	"time"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
)

// LetterRepository exposes persistence operations for cover letters. Letters
// are immutable once created and only ever visible to their owning user.
type LetterRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, letter *domain.CoverLetter) error
	ListByUser(ctx context.Context, userID string) ([]domain.CoverLetter, error)
	GetByID(ctx context.Context, userID, id string) (*domain.CoverLetter, error)
	CountByUser(ctx context.Context, userID string, since *time.Time) (int, error)
}
