package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/denmats/apihub/internal/db/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newKey(owner uuid.UUID, name, hash string, limit int64) *models.APIKey {
	return models.NewAPIKey(owner, name, models.APIKeyTypeSecret, hash, "dmats...abcd", limit)
}

func TestCreateRejectsDuplicateHash(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	_, err := repo.Create(ctx, newKey(owner, "first", "hash-1", 100))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newKey(owner, "second", "hash-1", 100))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestGetByKeyHash(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newKey(uuid.New(), "ci", "hash-ci", 100))
	require.NoError(t, err)

	found, err := repo.GetByKeyHash(ctx, "hash-ci")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByKeyHash(ctx, "unknown")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExistsByKeyHash(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newKey(uuid.New(), "ci", "hash-exists", 100))
	require.NoError(t, err)

	ok, err := repo.ExistsByKeyHash(ctx, "hash-exists")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByKeyHash(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListByUserNewestFirst(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	older := newKey(owner, "older", "hash-a", 100)
	older.CreatedAt = bun.NullTime{Time: time.Now().Add(-time.Hour)}
	_, err := repo.Create(ctx, older)
	require.NoError(t, err)

	newer := newKey(owner, "newer", "hash-b", 100)
	newer.CreatedAt = bun.NullTime{Time: time.Now()}
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	// A foreign owner's key must never show up.
	_, err = repo.Create(ctx, newKey(uuid.New(), "theirs", "hash-c", 100))
	require.NoError(t, err)

	keys, err := repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "newer", keys[0].Name)
	assert.Equal(t, "older", keys[1].Name)
}

func TestRenameOwned(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	created, err := repo.Create(ctx, newKey(owner, "ci", "hash-rn", 100))
	require.NoError(t, err)

	updated, err := repo.RenameOwned(ctx, created.ID, owner, "deploys")
	require.NoError(t, err)
	assert.Equal(t, "deploys", updated.Name)
}

func TestRenameOwnedForeignOwnerIsNotFound(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newKey(uuid.New(), "ci", "hash-own", 100))
	require.NoError(t, err)

	_, err = repo.RenameOwned(ctx, created.ID, uuid.New(), "stolen")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// The stored name is untouched.
	current, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ci", current.Name)
}

func TestDeleteOwnedIsIdempotent(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	created, err := repo.Create(ctx, newKey(owner, "ci", "hash-del", 100))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteOwned(ctx, created.ID, owner))
	assert.ErrorIs(t, repo.DeleteOwned(ctx, created.ID, owner), repository.ErrNotFound)
}

func TestDeleteOwnedForeignOwnerIsNotFound(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newKey(uuid.New(), "ci", "hash-del2", 100))
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteOwned(ctx, created.ID, uuid.New()), repository.ErrNotFound)
}

func TestIncrementUsageStopsAtLimit(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	created, err := repo.Create(ctx, newKey(owner, "ci", "hash-incr", 2))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ok, err := repo.IncrementUsageWithin(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	// Quota exhausted; the rejection must not bump the counter.
	ok, err := repo.IncrementUsageWithin(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	current, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), current.UsageCount)
}

func TestIncrementUsageMissingKey(t *testing.T) {
	repo := repository.NewAPIKeyRepository(newTestDB(t))

	ok, err := repo.IncrementUsageWithin(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}
