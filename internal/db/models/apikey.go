package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Key types form a closed set; anything else is rejected at issuance.
const (
	APIKeyTypeSecret = "secret"
	APIKeyTypePublic = "public"
)

type APIKey struct {
	bun.BaseModel `bun:"table:api_keys,alias:ak"`

	ID         uuid.UUID    `bun:",type:uuid,pk"`
	UserID     uuid.UUID    `bun:"user_id,type:uuid,notnull"`
	Name       string       `bun:",notnull"`
	Type       string       `bun:",notnull"`
	KeyHash    string       `bun:",notnull,unique"`
	KeyPreview string       `bun:",notnull"`
	UsageCount int64        `bun:",notnull,default:0"`
	UsageLimit int64        `bun:",notnull"`
	CreatedAt  bun.NullTime `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt  bun.NullTime `bun:",nullzero,notnull,default:current_timestamp"`
}

func NewAPIKey(userID uuid.UUID, name, keyType, keyHash, keyPreview string, usageLimit int64) *APIKey {
	return &APIKey{
		ID:         uuid.Must(uuid.NewRandom()),
		UserID:     userID,
		Name:       name,
		Type:       keyType,
		KeyHash:    keyHash,
		KeyPreview: keyPreview,
		UsageLimit: usageLimit,
	}
}

func ValidAPIKeyType(keyType string) bool {
	return keyType == APIKeyTypeSecret || keyType == APIKeyTypePublic
}
