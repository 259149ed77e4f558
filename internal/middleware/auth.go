package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dts-gxu/JobTracker/internal/models"
	"github.com/dts-gxu/JobTracker/internal/store"
	"github.com/dts-gxu/JobTracker/internal/util"
)

// SessionCookie carries the signed session token.
const SessionCookie = "jt_session"

const contextUserKey = "currentUser"

// RequireAuth resolves the session cookie to an account and puts it in the
// request context. Without a valid session, HTML routes redirect to the login
// page and /api routes get a JSON 401.
func RequireAuth(secret string, users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			reject(c)
			return
		}

		claims, err := util.ParseToken(secret, tokenStr)
		if err != nil {
			reject(c)
			return
		}

		user, err := users.ByID(claims.UserID)
		if err != nil {
			reject(c)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func reject(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// CurrentUser returns the account placed by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
