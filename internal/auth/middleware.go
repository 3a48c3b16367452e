package auth

import (
	"net/http"

	"github.com/alex-rutan/express-messagely/internal/policy"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the opaque session id.
const SessionCookieName = "session_id"

const contextKeyUsername = "principal_username"

// PrincipalFromContext returns the principal set by RequireSession.
func PrincipalFromContext(c *gin.Context) (policy.Principal, bool) {
	v, ok := c.Get(contextKeyUsername)
	if !ok {
		return policy.Principal{}, false
	}
	username, ok := v.(string)
	if !ok || username == "" {
		return policy.Principal{}, false
	}
	return policy.Principal{Username: username}, true
}

// SetPrincipal stores the principal username in the request context.
// RequireSession calls this; tests may call it directly.
func SetPrincipal(c *gin.Context, username string) {
	c.Set(contextKeyUsername, username)
}

// RequireSession returns a middleware that checks for a valid session cookie
// and sets the principal in context. If missing or invalid, responds with 401.
func RequireSession(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		username, ok := sessions.GetUsername(c.Request.Context(), sessionID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		SetPrincipal(c, username)
		c.Next()
	}
}
