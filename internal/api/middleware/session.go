package middleware

import (
	"net/http"

	"github.com/denmats/apihub/internal/app"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware requires a valid dashboard session cookie and exposes
// the owner's user id to handlers under "owner_id".
func SessionMiddleware(ctx *gin.Context) {
	app := ctx.MustGet("app").(*app.App)

	session, err := app.Sessions.Get(ctx.Request)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Please log in"})
		ctx.Abort()
		return
	}

	ctx.Set("owner_id", session.UserID)
	ctx.Next()
}
