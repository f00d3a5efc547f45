package repository

import (
	"context"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type IUserRepository interface {
	Repository[models.User]
	WithTx(tx *bun.Tx) IUserRepository
	WithDB(db *bun.DB) IUserRepository
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetBySubject(ctx context.Context, provider, subject string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
}

type UserRepository struct {
	db bun.IDB
}

func NewUserRepository(db *bun.DB) IUserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.NewSelect().Model(&user).Where("id = ?", id).Scan(ctx); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetBySubject(ctx context.Context, provider, subject string) (*models.User, error) {
	var user models.User
	err := r.db.NewSelect().
		Model(&user).
		Where("provider = ?", provider).
		Where("subject = ?", subject).
		Scan(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// Upsert provisions the user on first sign-in and refreshes the profile
// fields on every later one. The stored id is stable across sign-ins.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := r.db.NewInsert().
		Model(user).
		On("CONFLICT (provider, subject) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("email = EXCLUDED.email").
		Set("avatar_url = EXCLUDED.avatar_url").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return r.GetBySubject(ctx, user.Provider, user.Subject)
}

func (r *UserRepository) WithTx(tx *bun.Tx) IUserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) WithDB(db *bun.DB) IUserRepository {
	return &UserRepository{db: db}
}
