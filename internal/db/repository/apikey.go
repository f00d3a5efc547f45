package repository

import (
	"context"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type IAPIKeyRepository interface {
	Repository[models.APIKey]
	WithTx(tx *bun.Tx) IAPIKeyRepository
	WithDB(db *bun.DB) IAPIKeyRepository
	GetByID(ctx context.Context, id uuid.UUID) (*models.APIKey, error)
	GetByKeyHash(ctx context.Context, keyHash string) (*models.APIKey, error)
	ExistsByKeyHash(ctx context.Context, keyHash string) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.APIKey, error)
	RenameOwned(ctx context.Context, id, userID uuid.UUID, name string) (*models.APIKey, error)
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) error
	IncrementUsageWithin(ctx context.Context, id uuid.UUID) (bool, error)
}

type APIKeyRepository struct {
	db bun.IDB
}

func NewAPIKeyRepository(db *bun.DB) IAPIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, apikey *models.APIKey) (*models.APIKey, error) {
	if _, err := r.db.NewInsert().Model(apikey).Exec(ctx); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	return apikey, nil
}

func (r *APIKeyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.APIKey, error) {
	var apikey models.APIKey
	if err := r.db.NewSelect().Model(&apikey).Where("id = ?", id).Scan(ctx); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &apikey, nil
}

func (r *APIKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	var apikey models.APIKey
	if err := r.db.NewSelect().Model(&apikey).Where("key_hash = ?", keyHash).Scan(ctx); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &apikey, nil
}

// ExistsByKeyHash is the existence-only lookup used by the key validator;
// it never reads usage state.
func (r *APIKeyRepository) ExistsByKeyHash(ctx context.Context, keyHash string) (bool, error) {
	return r.db.NewSelect().Model((*models.APIKey)(nil)).Where("key_hash = ?", keyHash).Exists(ctx)
}

func (r *APIKeyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.APIKey, error) {
	apiKeys := make([]models.APIKey, 0)
	err := r.db.NewSelect().
		Model(&apiKeys).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return apiKeys, nil
}

// RenameOwned updates the name only when id and owner both match; a missing
// record and a foreign record are indistinguishable to the caller.
func (r *APIKeyRepository) RenameOwned(ctx context.Context, id, userID uuid.UUID, name string) (*models.APIKey, error) {
	res, err := r.db.NewUpdate().
		Model((*models.APIKey)(nil)).
		Set("name = ?", name).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *APIKeyRepository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*models.APIKey)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementUsageWithin accounts one call against the key's quota. The check
// and the increment are a single conditional statement, so two racing calls
// can never both consume the last unit or lose an update. It returns false
// when the quota is exhausted (or the record is gone).
func (r *APIKeyRepository) IncrementUsageWithin(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.APIKey)(nil)).
		Set("usage_count = usage_count + 1").
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Where("usage_count < usage_limit").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *APIKeyRepository) WithTx(tx *bun.Tx) IAPIKeyRepository {
	return &APIKeyRepository{db: tx}
}

func (r *APIKeyRepository) WithDB(db *bun.DB) IAPIKeyRepository {
	return &APIKeyRepository{db: db}
}
