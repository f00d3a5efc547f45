package server

import (
	"net/http"

	"github.com/denmats/apihub/internal/api"
	"github.com/denmats/apihub/internal/api/middleware"
	"github.com/denmats/apihub/internal/app"
	"github.com/gin-gonic/gin"
)

func (s *Server) SetupRoutes(app *app.App) {
	// Health check endpoint
	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// OAuth sign-in flow
	auth := s.ginEngine.Group("/auth")
	auth.GET("/login", handlerWrapper(app, api.Login))
	auth.GET("/callback", handlerWrapper(app, api.Callback))
	auth.POST("/logout", handlerWrapper(app, api.Logout))

	apiRoutes := s.ginEngine.Group("/api")

	// Public: key validation returns a bare boolean
	apiRoutes.POST("/validate-key", handlerWrapper(app, api.ValidateKey))

	// Programmatic endpoints authenticated by x-api-key
	apiRoutes.POST("/summarize",
		handlerWrapper(app, middleware.APIKeyMiddleware),
		handlerWrapper(app, api.Summarize))

	// Dashboard endpoints authenticated by session cookie
	session := apiRoutes.Group("")
	session.Use(handlerWrapper(app, middleware.SessionMiddleware))
	session.GET("/me", handlerWrapper(app, api.Me))
	session.GET("/apikeys", handlerWrapper(app, api.ListAPIKeys))
	session.POST("/apikeys", handlerWrapper(app, api.CreateAPIKey))
	session.PUT("/apikeys/:id", handlerWrapper(app, api.RenameAPIKey))
	session.DELETE("/apikeys/:id", handlerWrapper(app, api.DeleteAPIKey))
}

func handlerWrapper(app *app.App, f func(c *gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("app", app)
		f(ctx)
	}
}
