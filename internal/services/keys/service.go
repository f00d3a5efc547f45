package keys

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/denmats/apihub/internal/db/repository"
	"github.com/denmats/apihub/internal/utils/hashutil"
	"github.com/denmats/apihub/internal/utils/randutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	secretKeyPrefix = "dmatsai"
	publicKeyPrefix = "pk"

	// 24 random bytes hex-encode to a 48 character tail.
	secretBytes = 24

	previewStart = 5
	previewEnd   = 4
)

// CreatedKey carries the one-time secret next to the stored record. No
// other surface in the server ever returns the secret.
type CreatedKey struct {
	Key    *models.APIKey
	Secret string
}

type Service struct {
	repo              repository.IAPIKeyRepository
	logger            *zap.Logger
	defaultUsageLimit int64
}

func NewService(repo repository.IAPIKeyRepository, logger *zap.Logger, defaultUsageLimit int64) *Service {
	return &Service{
		repo:              repo,
		logger:            logger,
		defaultUsageLimit: defaultUsageLimit,
	}
}

// Create mints a new key for ownerID. A blank name gets a generated
// default; the type defaults to "secret" and must be in the closed set.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, name, keyType string) (*CreatedKey, error) {
	if keyType == "" {
		keyType = models.APIKeyTypeSecret
	}
	if !models.ValidAPIKeyType(keyType) {
		return nil, ErrInvalidType
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Key-%d", time.Now().Unix()%1_000_000)
	}

	secret, err := newSecret(keyType)
	if err != nil {
		return nil, err
	}

	apiKey := models.NewAPIKey(
		ownerID,
		name,
		keyType,
		hashutil.SecretHash(secret),
		randutil.ElideMiddle(secret, previewStart, previewEnd),
		s.defaultUsageLimit,
	)

	created, err := s.repo.Create(ctx, apiKey)
	if err != nil {
		if err == repository.ErrDuplicate {
			return nil, ErrConflict
		}
		return nil, err
	}

	return &CreatedKey{Key: created, Secret: secret}, nil
}

// Validate answers whether the presented secret belongs to a stored key.
// Store failures count as invalid: a validation check never fails open.
func (s *Service) Validate(ctx context.Context, secret string) bool {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return false
	}

	ok, err := s.repo.ExistsByKeyHash(ctx, hashutil.SecretHash(secret))
	if err != nil {
		s.logger.Error("api key existence check failed", zap.Error(err))
		return false
	}

	return ok
}

// Resolve maps a presented secret to its record, for callers that also
// need usage state. Unknown secrets and store failures both come back as
// ErrNotFound.
func (s *Service) Resolve(ctx context.Context, secret string) (*models.APIKey, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrNotFound
	}

	apiKey, err := s.repo.GetByKeyHash(ctx, hashutil.SecretHash(secret))
	if err != nil {
		if err != repository.ErrNotFound {
			s.logger.Error("api key lookup failed", zap.Error(err))
		}
		return nil, ErrNotFound
	}

	return apiKey, nil
}

func (s *Service) Rename(ctx context.Context, id, ownerID uuid.UUID, newName string) (*models.APIKey, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrNameRequired
	}

	apiKey, err := s.repo.RenameOwned(ctx, id, ownerID, newName)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return nil, ErrNotFound
		case repository.ErrDuplicate:
			return nil, ErrConflict
		}
		return nil, err
	}

	return apiKey, nil
}

// Revoke permanently removes a key. Revoking twice reports ErrNotFound the
// second time, never a server error.
func (s *Service) Revoke(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.repo.DeleteOwned(ctx, id, ownerID); err != nil {
		if err == repository.ErrNotFound {
			return ErrNotFound
		}
		return err
	}

	return nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]models.APIKey, error) {
	return s.repo.ListByUser(ctx, ownerID)
}

func newSecret(keyType string) (string, error) {
	prefix := secretKeyPrefix
	if keyType == models.APIKeyTypePublic {
		prefix = publicKeyPrefix
	}

	tail, err := randutil.RandomHex(secretBytes)
	if err != nil {
		return "", err
	}

	return prefix + "_" + tail, nil
}
