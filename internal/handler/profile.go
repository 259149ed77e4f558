package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Profile shows the signed-in user's own profile. The user is attached by
// render from the request context.
func Profile(c *gin.Context) {
	render(c, http.StatusOK, "profile.html", nil)
}
