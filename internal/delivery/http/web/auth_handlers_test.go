package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("success creates user, profile, and session", func(t *testing.T) {
		router, st := newTestRouter(t)

		resp := postForm(router, "/register/", url.Values{
			"username":  {"casey"},
			"email":     {"casey@example.com"},
			"password1": {"password-123"},
			"password2": {"password-123"},
		})

		assert.Equal(t, http.StatusFound, resp.Code)
		assert.Equal(t, "/", resp.Header().Get("Location"))
		assert.Contains(t, flashFrom(t, resp), "Welcome, casey!")

		require.Len(t, st.users, 1)
		require.Len(t, st.profiles, 1)
		require.Len(t, st.sessions, 1)

		var sessionID string
		for _, cookie := range resp.Result().Cookies() {
			if cookie.Name == testCookieName {
				sessionID = cookie.Value
				assert.True(t, cookie.HttpOnly)
			}
		}
		require.NotEmpty(t, sessionID)
		assert.Contains(t, st.sessions, sessionID)
	})

	t.Run("duplicate email re-renders with a field error", func(t *testing.T) {
		router, st := newTestRouter(t)
		st.addUser("casey", "casey@example.com", "password-123")

		resp := postForm(router, "/register/", url.Values{
			"username":  {"robin"},
			"email":     {"casey@example.com"},
			"password1": {"password-456"},
			"password2": {"password-456"},
		})

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "This email address is already in use.")
		assert.Len(t, st.users, 1)
	})

	t.Run("mismatched passwords rejected before the service runs", func(t *testing.T) {
		router, st := newTestRouter(t)

		resp := postForm(router, "/register/", url.Values{
			"username":  {"casey"},
			"email":     {"casey@example.com"},
			"password1": {"password-123"},
			"password2": {"password-124"},
		})

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "The two password fields didn&#39;t match.")
		assert.Empty(t, st.users)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success sets the session cookie", func(t *testing.T) {
		router, st := newTestRouter(t)
		st.addUser("casey", "casey@example.com", "password-123")

		resp := postForm(router, "/login/", url.Values{
			"username": {"casey"},
			"password": {"password-123"},
		})

		assert.Equal(t, http.StatusFound, resp.Code)
		assert.Equal(t, "/", resp.Header().Get("Location"))
		assert.Contains(t, flashFrom(t, resp), "Welcome back, casey!")

		var sessionID string
		for _, cookie := range resp.Result().Cookies() {
			if cookie.Name == testCookieName {
				sessionID = cookie.Value
			}
		}
		require.NotEmpty(t, sessionID)
		assert.Contains(t, st.sessions, sessionID)
	})

	t.Run("wrong password and unknown user read the same", func(t *testing.T) {
		router, st := newTestRouter(t)
		st.addUser("casey", "casey@example.com", "password-123")

		for _, form := range []url.Values{
			{"username": {"casey"}, "password": {"wrong-password"}},
			{"username": {"nobody"}, "password": {"password-123"}},
		} {
			resp := postForm(router, "/login/", form)
			assert.Equal(t, http.StatusOK, resp.Code)
			assert.Contains(t, resp.Body.String(), "Invalid username or password.")
		}
		assert.Empty(t, st.sessions)
	})

	t.Run("login replaces previous sessions", func(t *testing.T) {
		router, st := newTestRouter(t)
		user := st.addUser("casey", "casey@example.com", "password-123")
		stale := st.addSession(user.ID)

		resp := postForm(router, "/login/", url.Values{
			"username": {"casey"},
			"password": {"password-123"},
		})

		assert.Equal(t, http.StatusFound, resp.Code)
		assert.NotContains(t, st.sessions, stale.ID)
		assert.Len(t, st.sessions, 1)
	})
}

func TestLogout(t *testing.T) {
	router, st := newTestRouter(t)
	user := st.addUser("casey", "casey@example.com", "password-123")
	session := st.addSession(user.ID)

	resp := postForm(router, "/logout/", url.Values{}, sessionCookie(session))

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login/", resp.Header().Get("Location"))
	assert.Contains(t, flashFrom(t, resp), "successfully logged out")
	assert.Empty(t, st.sessions)

	// The old cookie no longer authenticates.
	again := get(router, "/", sessionCookie(session))
	assert.Equal(t, http.StatusFound, again.Code)
	assert.Equal(t, "/login/", again.Header().Get("Location"))
}

func TestPasswordReset(t *testing.T) {
	t.Run("request responds identically for unknown emails", func(t *testing.T) {
		router, st := newTestRouter(t)
		st.addUser("casey", "casey@example.com", "password-123")

		for _, email := range []string{"casey@example.com", "stranger@example.com"} {
			resp := postForm(router, "/password-reset/", url.Values{"email": {email}})
			assert.Equal(t, http.StatusFound, resp.Code)
			assert.Equal(t, "/login/", resp.Header().Get("Location"))
			assert.Contains(t, flashFrom(t, resp), "If an account with that email exists")
		}
		assert.Len(t, st.resetTokens, 1)
	})

	t.Run("valid token sets the new password once", func(t *testing.T) {
		router, st := newTestRouter(t)
		user := st.addUser("casey", "casey@example.com", "password-123")
		postForm(router, "/password-reset/", url.Values{"email": {"casey@example.com"}})

		var token string
		for tok := range st.resetTokens {
			token = tok
		}
		require.NotEmpty(t, token)

		resp := postForm(router, "/password-reset-confirm/"+token+"/", url.Values{
			"password1": {"fresh-password"},
			"password2": {"fresh-password"},
		})

		assert.Equal(t, http.StatusFound, resp.Code)
		assert.Equal(t, "/login/", resp.Header().Get("Location"))
		assert.Equal(t, "fresh-password", user.Password)

		// The token is single-use.
		resp = postForm(router, "/password-reset-confirm/"+token+"/", url.Values{
			"password1": {"another-password"},
			"password2": {"another-password"},
		})
		assert.Equal(t, "/password-reset/", resp.Header().Get("Location"))
		assert.Contains(t, flashFrom(t, resp), "invalid or has expired")
		assert.Equal(t, "fresh-password", user.Password)
	})

	t.Run("bogus token redirects back to the request form", func(t *testing.T) {
		router, _ := newTestRouter(t)

		resp := postForm(router, "/password-reset-confirm/not-a-token/", url.Values{
			"password1": {"fresh-password"},
			"password2": {"fresh-password"},
		})

		assert.Equal(t, http.StatusFound, resp.Code)
		assert.Equal(t, "/password-reset/", resp.Header().Get("Location"))
		assert.Contains(t, flashFrom(t, resp), "invalid or has expired")
	})
}
