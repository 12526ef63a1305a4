package handlers

import (
	"github.com/gin-gonic/gin"
)

func getStringFromCtx(c *gin.Context, key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// callerIdentity returns the authenticated email and session id the
// middleware attached to the request context.
func callerIdentity(c *gin.Context) (email, sessionID string) {
	email, _ = getStringFromCtx(c, "email")
	sessionID, _ = getStringFromCtx(c, "session_id")
	return
}
