package web

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mkrail/go-todo-web/internal/forms"
	"github.com/mkrail/go-todo-web/internal/models"
	"github.com/mkrail/go-todo-web/internal/services"
)

func (h *handlerImpl) HandleProfilePage(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	user, err := h.profiles.GetUserByID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to load user")
		h.setFlash(c, flashError, "Something went wrong. Please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	profile, err := h.profiles.GetOrCreateProfile(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to load profile")
		h.setFlash(c, flashError, "Something went wrong. Please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	h.render(c, http.StatusOK, "profile.html", gin.H{
		"AccountForm": forms.AccountForm{Username: user.Username, Email: user.Email},
		"ImageURL":    h.mediaURL(profile.Image),
		"Errors":      forms.Errors{},
	})
}

// HandleUpdateProfile processes the account and image sub-forms as one
// unit: both must validate before either is saved, and a persistence
// failure leaves both unsaved.
func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	var accountForm forms.AccountForm
	_ = c.ShouldBind(&accountForm)
	errs := accountForm.Validate()

	header, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		h.logger.Error().
			Err(err).
			Msg("failed to read image upload")
		errs.Add("image", "Could not read the uploaded file.")
	}
	for field, message := range forms.ValidateImageUpload(header, h.opts.MaxUploadSize) {
		errs.Add(field, message)
	}

	if !errs.Empty() {
		h.renderProfileWithErrors(c, userID, accountForm, errs)
		return
	}

	var imagePath *string
	if header != nil {
		file, err := header.Open()
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to open image upload")
			errs.Add("image", "Could not read the uploaded file.")
			h.renderProfileWithErrors(c, userID, accountForm, errs)
			return
		}
		defer func() { _ = file.Close() }()

		stored, err := h.media.SaveProfileImage(file, header.Filename)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to store image upload")
			errs.Add("image", "Could not save the uploaded file.")
			h.renderProfileWithErrors(c, userID, accountForm, errs)
			return
		}
		imagePath = &stored
	}

	err = h.profiles.UpdateProfile(c, services.UpdateProfileParams{
		UserID:   userID,
		Username: accountForm.Username,
		Email:    accountForm.Email,
		Image:    imagePath,
	})
	if err != nil {
		// The DB rejected the save; drop the stored file so nothing
		// of this request survives.
		if imagePath != nil {
			_ = h.media.Remove(*imagePath)
		}

		switch {
		case errors.Is(err, services.ErrEmailTaken):
			errs.Add("email", "This email address is already in use.")
		case errors.Is(err, services.ErrUsernameTaken):
			errs.Add("username", "This username is already taken.")
		default:
			h.logger.Error().
				Err(err).
				Str("user_id", userID).
				Msg("failed to update profile")
			errs.Add("form", "Something went wrong. Please try again.")
		}
		h.renderProfileWithErrors(c, userID, accountForm, errs)
		return
	}

	// Shrinking happens after the row is saved; a failure here leaves
	// an unresized but valid image behind, which is acceptable.
	if imagePath != nil {
		err = h.media.ShrinkOversized(*imagePath)
		if err != nil {
			h.logger.Warn().
				Err(err).
				Str("path", *imagePath).
				Msg("failed to resize profile image")
		}
	}

	h.setFlash(c, flashSuccess, "Your profile has been updated!")
	c.Redirect(http.StatusFound, "/profile/")
}

func (h *handlerImpl) renderProfileWithErrors(c *gin.Context, userID string, accountForm forms.AccountForm, errs forms.Errors) {
	imageURL := h.mediaURL("")
	if profile, err := h.profiles.GetOrCreateProfile(c, userID); err == nil {
		imageURL = h.mediaURL(profile.Image)
	}

	h.render(c, http.StatusOK, "profile.html", gin.H{
		"AccountForm": accountForm,
		"ImageURL":    imageURL,
		"Errors":      errs,
	})
}

func (h *handlerImpl) mediaURL(image string) string {
	if image == "" {
		image = models.DefaultProfileImage
	}
	return path.Join(h.opts.MediaURLPrefix, filepath.ToSlash(image))
}
