package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
)

// APIKey rejects requests whose X-API-Key header does not match the
// configured key. An empty configured key disables the check entirely.
func APIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		provided := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.FormatError("Invalid or missing API key", "unauthorized"))
			return
		}
		c.Next()
	}
}
