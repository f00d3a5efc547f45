package repository

import (
	"context"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type IUsageEventRepository interface {
	Repository[models.UsageEvent]
	WithTx(tx *bun.Tx) IUsageEventRepository
	WithDB(db *bun.DB) IUsageEventRepository
	CountByKey(ctx context.Context, apiKeyID uuid.UUID) (int, error)
}

type UsageEventRepository struct {
	db bun.IDB
}

func NewUsageEventRepository(db *bun.DB) IUsageEventRepository {
	return &UsageEventRepository{db: db}
}

func (r *UsageEventRepository) Create(ctx context.Context, event *models.UsageEvent) (*models.UsageEvent, error) {
	if _, err := r.db.NewInsert().Model(event).Exec(ctx); err != nil {
		return nil, err
	}

	return event, nil
}

func (r *UsageEventRepository) CountByKey(ctx context.Context, apiKeyID uuid.UUID) (int, error) {
	return r.db.NewSelect().
		Model((*models.UsageEvent)(nil)).
		Where("api_key_id = ?", apiKeyID).
		Count(ctx)
}

func (r *UsageEventRepository) WithTx(tx *bun.Tx) IUsageEventRepository {
	return &UsageEventRepository{db: tx}
}

func (r *UsageEventRepository) WithDB(db *bun.DB) IUsageEventRepository {
	return &UsageEventRepository{db: db}
}
