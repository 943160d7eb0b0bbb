package middleware

import (
	"net/http"

	"advanced-form/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "form_session"
	sessionMaxAge     = 7 * 24 * 60 * 60
)

// Session assigns each browser a random session id kept in a cookie. The id
// keys the last submission result shown under each form.
func Session(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, id, sessionMaxAge, "/", "", secure, true)
		}
		c.Set(string(domain.KeySessionID), id)
		c.Next()
	}
}

// SessionID returns the id set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(string(domain.KeySessionID))
}
