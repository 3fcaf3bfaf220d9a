package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestProfileRepo(t *testing.T) repository.ProfileRepository {
	t.Helper()
	repo := NewProfileRepository(openTestDB(t))
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func strPtr(s string) *string { return &s }

func TestProfileCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestProfileRepo(t)

	require.NoError(t, repo.Create(ctx, "user-1"))

	profile, err := repo.GetByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", profile.UserID)
	require.Nil(t, profile.Name)
	require.Nil(t, profile.Summary)
	require.Empty(t, profile.Skills)
}

func TestProfileCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := newTestProfileRepo(t)

	require.NoError(t, repo.Create(ctx, "user-1"))
	require.Error(t, repo.Create(ctx, "user-1"))
}

func TestProfileGetMissing(t *testing.T) {
	repo := newTestProfileRepo(t)

	_, err := repo.GetByUser(context.Background(), "nobody")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newTestProfileRepo(t)
	require.NoError(t, repo.Create(ctx, "user-1"))

	skills := []string{"Go", "SQL"}
	profile, err := repo.Update(ctx, "user-1", repository.UpdateProfileParams{
		Name:    strPtr("Jo"),
		Skills:  &skills,
		Summary: strPtr("Backend engineer"),
	})
	require.NoError(t, err)
	require.Equal(t, "Jo", *profile.Name)
	require.Equal(t, skills, profile.Skills)
	require.Equal(t, "Backend engineer", *profile.Summary)
}

func TestProfilePartialUpdateKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	repo := newTestProfileRepo(t)
	require.NoError(t, repo.Create(ctx, "user-1"))

	skills := []string{"Go"}
	_, err := repo.Update(ctx, "user-1", repository.UpdateProfileParams{
		Name:   strPtr("Jo"),
		Skills: &skills,
	})
	require.NoError(t, err)

	profile, err := repo.Update(ctx, "user-1", repository.UpdateProfileParams{
		Summary: strPtr("New summary"),
	})
	require.NoError(t, err)
	require.Equal(t, "Jo", *profile.Name)
	require.Equal(t, skills, profile.Skills)
	require.Equal(t, "New summary", *profile.Summary)
}

func TestProfileEmptyUpdateIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := newTestProfileRepo(t)
	require.NoError(t, repo.Create(ctx, "user-1"))

	profile, err := repo.Update(ctx, "user-1", repository.UpdateProfileParams{})
	require.NoError(t, err)
	require.Equal(t, "user-1", profile.UserID)
}

func TestProfileUpdateMissing(t *testing.T) {
	repo := newTestProfileRepo(t)

	_, err := repo.Update(context.Background(), "nobody", repository.UpdateProfileParams{
		Name: strPtr("Jo"),
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}
