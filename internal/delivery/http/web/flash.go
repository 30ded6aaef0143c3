package web

import (
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashError   = "error"
)

// Flash is a one-time notification carried across a redirect in a
// cookie and cleared on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

func (h *handlerImpl) setFlash(c *gin.Context, level, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(level + ":" + message))
	c.SetCookie(flashCookie, value, 300, "/", "", h.opts.SecureCookies, true)
}

// popFlash reads and clears the flash cookie. Undecodable values are
// dropped silently.
func (h *handlerImpl) popFlash(c *gin.Context) *Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", h.opts.SecureCookies, true)

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}

	level, message, found := strings.Cut(string(decoded), ":")
	if !found {
		return nil
	}
	return &Flash{Level: level, Message: message}
}
