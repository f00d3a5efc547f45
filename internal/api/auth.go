package api

import (
	"net/http"

	"github.com/denmats/apihub/internal/app"
	"github.com/denmats/apihub/internal/auth"
	"github.com/denmats/apihub/internal/db/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login starts the OAuth flow by redirecting to the identity provider.
func Login(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	state, err := app.OAuthState.Generate(c.Writer)
	if err != nil {
		app.Logger.Error("failed to generate oauth state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sign-in"})
		return
	}

	c.Redirect(http.StatusFound, app.AuthProvider.AuthCodeURL(state.State, state.Nonce))
}

// Callback completes the OAuth flow, provisions the user row and issues a
// session cookie.
func Callback(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	state, err := app.OAuthState.Validate(c.Request, c.Query("state"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired sign-in state"})
		return
	}
	app.OAuthState.Clear(c.Writer)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	identity, err := app.AuthProvider.Exchange(c.Request.Context(), code, state.Nonce)
	if err != nil {
		app.Logger.Error("oauth exchange failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Sign-in failed"})
		return
	}

	user, err := app.UserRepository.Upsert(c.Request.Context(), models.NewUser(
		identity.Provider,
		identity.Subject,
		identity.Name,
		identity.Email,
		identity.AvatarURL,
	))
	if err != nil {
		app.Logger.Error("failed to upsert user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	if err := app.Sessions.Create(c.Writer, &auth.Session{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}); err != nil {
		app.Logger.Error("failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	c.Redirect(http.StatusFound, "/dashboards")
}

// Logout clears the session cookie.
func Logout(c *gin.Context) {
	app := c.MustGet("app").(*app.App)
	app.Sessions.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Me returns the profile of the signed-in user.
func Me(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	user, err := app.UserRepository.GetByID(c.Request.Context(), ownerFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID.String(),
		"name":      user.Name,
		"email":     user.Email,
		"avatarUrl": user.AvatarURL,
	})
}
