package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName carries the admin session token.
const SessionCookieName = "admin_token"

// CookieOptions control the attributes of the session cookie.
type CookieOptions struct {
	Secure bool
	Domain string
}

// SetSessionCookie writes the session token as an HttpOnly, SameSite=Strict cookie.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, opts CookieOptions) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", opts.Domain, opts.Secure, true)
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", opts.Domain, opts.Secure, true)
}

// SessionToken returns the session cookie value, or an empty string.
func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}
