package util

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// Flash is a one-shot message carried across a redirect in a short-lived
// cookie, rendered once on the next page and then cleared.
type Flash struct {
	Message  string `json:"message"`
	Category string `json:"category"` // success, error or warning
}

const flashCookie = "jt_flash"

// SetFlash queues a message for the next rendered page.
func SetFlash(c *gin.Context, category, message string) {
	b, err := json.Marshal(Flash{Message: message, Category: category})
	if err != nil {
		return
	}
	c.SetCookie(flashCookie, base64.URLEncoding.EncodeToString(b), 60, "/", "", false, true)
}

// PopFlash returns the pending flash, if any, and clears it.
func PopFlash(c *gin.Context) *Flash {
	v, err := c.Cookie(flashCookie)
	if err != nil || v == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	b, err := base64.URLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	return &f
}
