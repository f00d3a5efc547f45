package keys_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/denmats/apihub/internal/db/repository"
	"github.com/denmats/apihub/internal/services/keys"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*keys.Service, repository.IAPIKeyRepository) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().Model((*models.APIKey)(nil)).Exec(context.Background())
	require.NoError(t, err)

	repo := repository.NewAPIKeyRepository(db)
	return keys.NewService(repo, zap.NewNop(), 100), repo
}

func TestCreateReturnsSecretOnce(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, "CI", "secret")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.Secret, "dmatsai_"))
	assert.Len(t, created.Secret, len("dmatsai_")+48)

	// The stored record carries a preview derived from the secret, never
	// the secret itself.
	assert.NotEqual(t, created.Secret, created.Key.KeyPreview)
	assert.Equal(t, created.Secret[:5], created.Key.KeyPreview[:5])
	assert.True(t, strings.HasSuffix(created.Key.KeyPreview, created.Secret[len(created.Secret)-4:]))
	assert.NotContains(t, created.Key.KeyHash, created.Secret)

	listed, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(0), listed[0].UsageCount)
	assert.Equal(t, int64(100), listed[0].UsageLimit)
}

func TestCreatePublicKeyPrefix(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.Create(context.Background(), uuid.New(), "web", "public")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Secret, "pk_"))
}

func TestCreateDefaultsTypeAndName(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.Create(context.Background(), uuid.New(), "  ", "")
	require.NoError(t, err)
	assert.Equal(t, "secret", created.Key.Type)
	assert.True(t, strings.HasPrefix(created.Key.Name, "Key-"))
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), uuid.New(), "CI", "admin")
	assert.ErrorIs(t, err, keys.ErrInvalidType)
}

func TestValidate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), "CI", "secret")
	require.NoError(t, err)

	assert.True(t, svc.Validate(ctx, created.Secret))
	assert.False(t, svc.Validate(ctx, ""))
	assert.False(t, svc.Validate(ctx, "   "))
	assert.False(t, svc.Validate(ctx, "dmatsai_deadbeef"))
	assert.False(t, svc.Validate(ctx, created.Key.KeyPreview))
}

func TestResolve(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), "CI", "secret")
	require.NoError(t, err)

	resolved, err := svc.Resolve(ctx, created.Secret)
	require.NoError(t, err)
	assert.Equal(t, created.Key.ID, resolved.ID)

	_, err = svc.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, keys.ErrNotFound)
}

func TestRenameValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, "CI", "secret")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, created.Key.ID, owner, "   ")
	assert.ErrorIs(t, err, keys.ErrNameRequired)

	_, err = svc.Rename(ctx, created.Key.ID, uuid.New(), "stolen")
	assert.ErrorIs(t, err, keys.ErrNotFound)

	renamed, err := svc.Rename(ctx, created.Key.ID, owner, "deploy bot")
	require.NoError(t, err)
	assert.Equal(t, "deploy bot", renamed.Name)
}

func TestRevokeTwice(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, "CI", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, created.Key.ID, owner))
	assert.ErrorIs(t, svc.Revoke(ctx, created.Key.ID, owner), keys.ErrNotFound)

	assert.False(t, svc.Validate(ctx, created.Secret))
}
