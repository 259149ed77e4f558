package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dts-gxu/JobTracker/internal/middleware"
	"github.com/dts-gxu/JobTracker/internal/util"
)

// render draws a template with the pending flash (if any) and the signed-in
// user attached. Handlers that re-display a form after a failed submission
// put the message straight into data instead, since a cookie set in this
// request would only show up on the next one.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Flash"]; !ok {
		if f := util.PopFlash(c); f != nil {
			data["Flash"] = f
		}
	}
	if u := middleware.CurrentUser(c); u != nil {
		data["User"] = u
	}
	c.HTML(status, tmpl, data)
}

// formValues echoes submitted fields back into a redisplayed form. A missing
// key renders as the empty string, which keeps templates free of guards.
type formValues map[string]string

func flashNow(data gin.H, category, message string) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = &util.Flash{Category: category, Message: message}
	return data
}

func notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{})
}

// recordID parses the :id route parameter. Zero means it was not a usable
// id, which callers treat as not found.
func recordID(c *gin.Context) uint {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0
	}
	return uint(id)
}
