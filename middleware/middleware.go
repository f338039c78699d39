package middleware

import (
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionIDKey is the gin context key holding the current session ID.
	SessionIDKey = "session_id"
	// SessionIssuedKey is set when the request carried no valid session cookie.
	SessionIssuedKey = "session_issued"
)

// CORS sets the cross-origin headers and answers preflight requests.
// Credentials are only allowed for a concrete origin; browsers refuse them
// alongside a wildcard.
func CORS(allowedOrigins string) gin.HandlerFunc {
	withCredentials := allowedOrigins != "" && allowedOrigins != "*"
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigins)
		if withCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestLogger logs every request once it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("http.request")
			return
		}
		entry.Info("http.request")
	}
}

// Session makes sure each browser carries a session cookie and exposes its
// value under SessionIDKey.
func Session(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id, 0, "/", "", false, true)
			c.Set(SessionIssuedKey, true)
			log.WithField("session_id", id).Debug("session.created")
		}
		c.Set(SessionIDKey, id)
		c.Next()
	}
}

// SessionID returns the session ID set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// SessionIssued reports whether Session minted a new ID for this request
// because the client sent no valid cookie.
func SessionIssued(c *gin.Context) bool {
	return c.GetBool(SessionIssuedKey)
}
