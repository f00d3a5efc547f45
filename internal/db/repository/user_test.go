package repository_test

import (
	"context"
	"testing"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/denmats/apihub/internal/db/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertKeepsStableID(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Upsert(ctx, models.NewUser("github", "4242", "Dan", "dan@example.com", ""))
	require.NoError(t, err)

	// Same subject, refreshed profile.
	second, err := repo.Upsert(ctx, models.NewUser("github", "4242", "Daniel", "dan@example.com", "https://example.com/a.png"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Daniel", second.Name)
}

func TestGetBySubjectMissing(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t))

	_, err := repo.GetBySubject(context.Background(), "github", "unknown")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
