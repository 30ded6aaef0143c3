package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkrail/go-todo-web/internal/forms"
	"github.com/mkrail/go-todo-web/internal/services"
)

func (h *handlerImpl) HandleRegisterPage(c *gin.Context) {
	if h.authenticated(c) {
		h.setFlash(c, flashInfo, "You are already logged in!")
		c.Redirect(http.StatusFound, "/")
		return
	}

	h.render(c, http.StatusOK, "register.html", gin.H{
		"Form":   forms.RegisterForm{},
		"Errors": forms.Errors{},
	})
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	if h.authenticated(c) {
		h.setFlash(c, flashInfo, "You are already logged in!")
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form forms.RegisterForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if !errs.Empty() {
		h.render(c, http.StatusOK, "register.html", gin.H{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	user, session, err := h.auth.Register(c, services.RegisterParams{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password1,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			errs.Add("email", "This email address is already in use.")
		case errors.Is(err, services.ErrUsernameTaken):
			errs.Add("username", "This username is already taken.")
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to register user")
			errs.Add("form", "Something went wrong. Please try again.")
		}
		h.render(c, http.StatusOK, "register.html", gin.H{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	h.setSessionCookie(c, session.ID)
	h.setFlash(c, flashSuccess, fmt.Sprintf("Welcome, %s! Account created successfully!", user.Username))
	c.Redirect(http.StatusFound, "/")
}

func (h *handlerImpl) HandleLoginPage(c *gin.Context) {
	if h.authenticated(c) {
		h.setFlash(c, flashInfo, "You are already logged in!")
		c.Redirect(http.StatusFound, "/")
		return
	}

	h.render(c, http.StatusOK, "login.html", gin.H{
		"Form":   forms.LoginForm{},
		"Errors": forms.Errors{},
	})
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	if h.authenticated(c) {
		h.setFlash(c, flashInfo, "You are already logged in!")
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form forms.LoginForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if !errs.Empty() {
		h.render(c, http.StatusOK, "login.html", gin.H{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	user, session, err := h.auth.Login(c, services.LoginParams{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		// Unknown user and wrong password read the same on purpose.
		if errors.Is(err, services.ErrUserNotFound) ||
			errors.Is(err, services.ErrUserPasswordMismatch) {
			errs.Add("form", "Invalid username or password.")
		} else {
			h.logger.Error().
				Err(err).
				Msg("failed to log in user")
			errs.Add("form", "Something went wrong. Please try again.")
		}
		h.render(c, http.StatusOK, "login.html", gin.H{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	h.setSessionCookie(c, session.ID)
	h.setFlash(c, flashSuccess, fmt.Sprintf("Welcome back, %s!", user.Username))
	c.Redirect(http.StatusFound, "/")
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if ok {
		err := h.auth.Logout(c, userID)
		if err != nil {
			h.logger.Error().
				Err(err).
				Str("user_id", userID).
				Msg("failed to log out user")
		}
	}

	h.clearSessionCookie(c)
	h.setFlash(c, flashInfo, "You have been successfully logged out.")
	c.Redirect(http.StatusFound, "/login/")
}

func (h *handlerImpl) HandleResetRequestPage(c *gin.Context) {
	h.render(c, http.StatusOK, "password_reset.html", gin.H{
		"Form":   forms.ResetRequestForm{},
		"Errors": forms.Errors{},
	})
}

func (h *handlerImpl) HandleResetRequest(c *gin.Context) {
	var form forms.ResetRequestForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if !errs.Empty() {
		h.render(c, http.StatusOK, "password_reset.html", gin.H{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	token, err := h.auth.RequestPasswordReset(c, form.Email)
	switch {
	case err == nil:
		// No mailer is wired up; the reset link goes to the log for
		// an operator to relay.
		h.logger.Info().
			Str("email", form.Email).
			Str("link", "/password-reset-confirm/"+token+"/").
			Msg("password reset link issued")
	case errors.Is(err, services.ErrUserNotFound):
		// Respond identically so the form can't be used to probe
		// which emails have accounts.
	default:
		h.logger.Error().
			Err(err).
			Msg("failed to issue reset token")
	}

	h.setFlash(c, flashInfo, "If an account with that email exists, password reset instructions have been sent.")
	c.Redirect(http.StatusFound, "/login/")
}

func (h *handlerImpl) HandleResetConfirmPage(c *gin.Context) {
	h.render(c, http.StatusOK, "password_reset_confirm.html", gin.H{
		"Token":  c.Param("token"),
		"Form":   forms.ResetConfirmForm{},
		"Errors": forms.Errors{},
	})
}

func (h *handlerImpl) HandleResetConfirm(c *gin.Context) {
	token := c.Param("token")

	var form forms.ResetConfirmForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if !errs.Empty() {
		h.render(c, http.StatusOK, "password_reset_confirm.html", gin.H{
			"Token":  token,
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	err := h.auth.ResetPassword(c, token, form.Password1)
	if err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) || errors.Is(err, services.ErrUserNotFound) {
			h.setFlash(c, flashError, "The password reset link is invalid or has expired.")
			c.Redirect(http.StatusFound, "/password-reset/")
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to reset password")
		h.setFlash(c, flashError, "Something went wrong. Please try again.")
		c.Redirect(http.StatusFound, "/password-reset/")
		return
	}

	h.setFlash(c, flashSuccess, "Your password has been set. You can log in now.")
	c.Redirect(http.StatusFound, "/login/")
}
