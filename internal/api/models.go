package api

import (
	"time"

	"github.com/denmats/apihub/internal/db/models"
)

type CreateKeyRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type RenameKeyRequest struct {
	Name string `json:"name"`
}

type ValidateKeyRequest struct {
	APIKey string `json:"apiKey"`
}

type SummarizeRequest struct {
	GithubURL string `json:"githubUrl"`
}

// APIKeyResponse is the wire shape of a key. The full secret is never part
// of it; creation responses add the one-time FullKey separately.
type APIKeyResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	KeyPreview string    `json:"keyPreview"`
	CreatedAt  time.Time `json:"createdAt"`
	Usage      int64     `json:"usage"`
	UsageLimit int64     `json:"usageLimit"`
}

type CreatedKeyResponse struct {
	APIKeyResponse
	FullKey string `json:"fullKey"`
}

func newAPIKeyResponse(m *models.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:         m.ID.String(),
		Name:       m.Name,
		Type:       m.Type,
		KeyPreview: m.KeyPreview,
		CreatedAt:  m.CreatedAt.Time,
		Usage:      m.UsageCount,
		UsageLimit: m.UsageLimit,
	}
}
