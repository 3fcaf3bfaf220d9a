package repository

import (
	"context"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
)

// UpdateProfileParams carries a partial profile update. Nil fields are left
// untouched; only fields explicitly present in the request are written.
type UpdateProfileParams struct {
	Name    *string
	Skills  *[]string
	Summary *string
}

// Empty reports whether the update would write nothing.
func (p UpdateProfileParams) Empty() bool {
	return p.Name == nil && p.Skills == nil && p.Summary == nil
}

// ProfileRepository exposes persistence operations for user profiles. Every
// operation is scoped by the owning user id.
type ProfileRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, userID string) error
	GetByUser(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, params UpdateProfileParams) (*domain.Profile, error)
}
