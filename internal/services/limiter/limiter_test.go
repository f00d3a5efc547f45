package limiter_test

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/denmats/apihub/internal/db/repository"
	"github.com/denmats/apihub/internal/services/limiter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
)

func newLimiter(t *testing.T, usageLimit int64) (*limiter.Limiter, repository.IAPIKeyRepository, repository.IUsageEventRepository, uuid.UUID) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, table := range []interface{}{(*models.APIKey)(nil), (*models.UsageEvent)(nil)} {
		_, err := db.NewCreateTable().Model(table).Exec(ctx)
		require.NoError(t, err)
	}

	keyRepo := repository.NewAPIKeyRepository(db)
	eventRepo := repository.NewUsageEventRepository(db)

	apiKey := models.NewAPIKey(uuid.New(), "ci", models.APIKeyTypeSecret, "hash-"+uuid.NewString(), "preview", usageLimit)
	_, err = keyRepo.Create(ctx, apiKey)
	require.NoError(t, err)

	return limiter.New(keyRepo, eventRepo, zap.NewNop()), keyRepo, eventRepo, apiKey.ID
}

func TestAllowUpToLimitThenReject(t *testing.T) {
	lim, keyRepo, _, keyID := newLimiter(t, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, lim.Allow(ctx, keyID, "summarize"))
	}

	// Rejection is idempotent and must not move the counter.
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, lim.Allow(ctx, keyID, "summarize"), limiter.ErrRateLimitExceeded)
	}

	current, err := keyRepo.GetByID(ctx, keyID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), current.UsageCount)

	lim.Close()
}

func TestConcurrentAllowsLoseNoUpdates(t *testing.T) {
	const limit = 32
	const callers = 64

	lim, keyRepo, _, keyID := newLimiter(t, limit)
	ctx := context.Background()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if err := lim.Allow(ctx, keyID, "summarize"); err == nil {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), allowed.Load())

	current, err := keyRepo.GetByID(ctx, keyID)
	require.NoError(t, err)
	assert.Equal(t, int64(limit), current.UsageCount)

	lim.Close()
}

func TestUsageEventsRecorded(t *testing.T) {
	lim, _, eventRepo, keyID := newLimiter(t, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, lim.Allow(ctx, keyID, "summarize"))
	}

	// Close drains the audit pool before we count.
	lim.Close()

	count, err := eventRepo.CountByKey(ctx, keyID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
