package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UsageEvent is a best-effort audit row recorded after a call is accounted
// against a key's quota. The quota decision never depends on it.
type UsageEvent struct {
	bun.BaseModel `bun:"table:usage_events,alias:ue"`

	ID        uuid.UUID    `bun:",type:uuid,pk"`
	APIKeyID  uuid.UUID    `bun:"api_key_id,type:uuid,notnull"`
	Operation string       `bun:",notnull"`
	CreatedAt bun.NullTime `bun:",nullzero,notnull,default:current_timestamp"`
}

func NewUsageEvent(apiKeyID uuid.UUID, operation string) *UsageEvent {
	return &UsageEvent{
		ID:        uuid.Must(uuid.NewRandom()),
		APIKeyID:  apiKeyID,
		Operation: operation,
	}
}
