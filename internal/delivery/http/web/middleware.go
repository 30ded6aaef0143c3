package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDCtxKey = "user_id"

// HandleAuthMiddleware resolves the session cookie to an acting user
// and injects the user ID into the request context. Requests without a
// live session are redirected to the login page.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	sessionID, err := c.Cookie(h.opts.CookieName)
	if err != nil || sessionID == "" {
		c.Redirect(http.StatusFound, "/login/")
		c.Abort()
		return
	}

	session, err := h.sessions.GetSessionByID(c, sessionID)
	if err != nil {
		h.clearSessionCookie(c)
		c.Redirect(http.StatusFound, "/login/")
		c.Abort()
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Next()
}

func (h *handlerImpl) currentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(userIDCtxKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}

// authenticated reports whether the request carries a live session.
// Used on login/register pages, which sit outside the auth middleware.
func (h *handlerImpl) authenticated(c *gin.Context) bool {
	sessionID, err := c.Cookie(h.opts.CookieName)
	if err != nil || sessionID == "" {
		return false
	}
	_, err = h.sessions.GetSessionByID(c, sessionID)
	return err == nil
}

func (h *handlerImpl) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetCookie(
		h.opts.CookieName,
		sessionID,
		int(h.opts.SessionTTL.Seconds()),
		"/",
		"",
		h.opts.SecureCookies,
		true,
	)
}

func (h *handlerImpl) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.opts.CookieName, "", -1, "/", "", h.opts.SecureCookies, true)
}
