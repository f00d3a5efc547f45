package api

import (
	"errors"
	"net/http"

	"github.com/denmats/apihub/internal/app"
	"github.com/denmats/apihub/internal/services/keys"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OwnerID is the gin context key under which the session middleware stores
// the authenticated owner.
const OwnerID = "owner_id"

func ownerFromContext(c *gin.Context) uuid.UUID {
	return c.MustGet(OwnerID).(uuid.UUID)
}

func ListAPIKeys(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	apiKeys, err := app.Keys.List(c.Request.Context(), ownerFromContext(c))
	if err != nil {
		app.Logger.Error("failed to list api keys", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch API keys"})
		return
	}

	out := make([]APIKeyResponse, 0, len(apiKeys))
	for i := range apiKeys {
		out = append(out, newAPIKeyResponse(&apiKeys[i]))
	}

	c.JSON(http.StatusOK, out)
}

func CreateAPIKey(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	var req CreateKeyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := app.Keys.Create(c.Request.Context(), ownerFromContext(c), req.Name, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, keys.ErrInvalidType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key type specified"})
		case errors.Is(err, keys.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "An API key with this value already exists."})
		default:
			app.Logger.Error("failed to create api key", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save API key"})
		}
		return
	}

	// The only response in the system that carries the full secret.
	c.JSON(http.StatusCreated, CreatedKeyResponse{
		APIKeyResponse: newAPIKeyResponse(created.Key),
		FullKey:        created.Secret,
	})
}

func RenameAPIKey(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found or access denied"})
		return
	}

	var req RenameKeyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	renamed, err := app.Keys.Rename(c.Request.Context(), id, ownerFromContext(c), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, keys.ErrNameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "New name is required and must be a non-empty string"})
		case errors.Is(err, keys.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found or access denied"})
		case errors.Is(err, keys.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "An API key with this name might already exist."})
		default:
			app.Logger.Error("failed to rename api key", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update API key name"})
		}
		return
	}

	c.JSON(http.StatusOK, newAPIKeyResponse(renamed))
}

func DeleteAPIKey(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found or access denied"})
		return
	}

	if err := app.Keys.Revoke(c.Request.Context(), id, ownerFromContext(c)); err != nil {
		if errors.Is(err, keys.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found or access denied"})
			return
		}
		app.Logger.Error("failed to delete api key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete API key"})
		return
	}

	c.Status(http.StatusNoContent)
}
