package api

import (
	"errors"
	"net/http"

	"github.com/denmats/apihub/internal/app"
	"github.com/denmats/apihub/internal/services/summarizer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Summarize produces a short summary of a public GitHub repository's README.
// The api-key middleware has already authenticated the caller and charged
// the request against the key's quota.
func Summarize(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	var req SummarizeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.GithubURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "githubUrl is required"})
		return
	}

	if app.Summarizer == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Summarization is not configured"})
		return
	}

	summary, err := app.Summarizer.Summarize(c.Request.Context(), req.GithubURL)
	if err != nil {
		switch {
		case errors.Is(err, summarizer.ErrInvalidRepoURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": "githubUrl must be a valid GitHub repository URL"})
		case errors.Is(err, summarizer.ErrReadmeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "README not found for this repository"})
		case errors.Is(err, summarizer.ErrUpstream):
			app.Logger.Error("summarize upstream failure", zap.String("url", req.GithubURL), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream service failure"})
		default:
			app.Logger.Error("summarize failed", zap.String("url", req.GithubURL), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize repository"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"summary":    summary.Summary,
		"cool_facts": summary.CoolFacts,
	})
}
