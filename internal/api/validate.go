package api

import (
	"net/http"

	"github.com/denmats/apihub/internal/app"
	"github.com/gin-gonic/gin"
)

// ValidateKey answers whether a presented secret is currently usable. It is
// a public endpoint; the answer is a bare boolean with no detail about why
// a key is invalid.
func ValidateKey(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	var req ValidateKeyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "Invalid request body"})
		return
	}

	if req.APIKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "API key is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": app.Keys.Validate(c.Request.Context(), req.APIKey)})
}
