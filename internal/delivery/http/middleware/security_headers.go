package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// formPageCSP allows the inline stylesheet of the form pages and posting
// back to this origin. Swagger UI needs inline scripts as well.
var formPageCSP = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline'",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data:",
	"frame-ancestors 'none'",
	"base-uri 'self'",
	"form-action 'self'",
}, "; ")

// SecurityHeadersMiddleware sets baseline security headers. Responses are
// never cached: rendered results echo the submitted password.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Content-Security-Policy", formPageCSP)
		h.Set("Cache-Control", "no-store")
		c.Next()
	}
}
