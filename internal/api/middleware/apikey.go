package middleware

import (
	"errors"
	"net/http"

	"github.com/denmats/apihub/internal/app"
	"github.com/denmats/apihub/internal/services/limiter"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIKeyID is the gin context key under which the authenticated key's id is
// stored for downstream handlers.
const APIKeyID = "api_key_id"

// APIKeyMiddleware authenticates a request by its x-api-key header and
// charges it against the key's usage quota. Requests past the quota are
// rejected with 429 and the counter stays at the limit.
func APIKeyMiddleware(ctx *gin.Context) {
	app := ctx.MustGet("app").(*app.App)

	secret := ctx.Request.Header.Get("x-api-key")
	if secret == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "x-api-key header is required"})
		ctx.Abort()
		return
	}

	key, err := app.Keys.Resolve(ctx.Request.Context(), secret)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		ctx.Abort()
		return
	}

	if err := app.Limiter.Allow(ctx.Request.Context(), key.ID, ctx.FullPath()); err != nil {
		if errors.Is(err, limiter.ErrRateLimitExceeded) {
			ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			ctx.Abort()
			return
		}

		app.Logger.Error("rate limit check failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		ctx.Abort()
		return
	}

	ctx.Set(APIKeyID, key.ID)
	ctx.Next()
}
