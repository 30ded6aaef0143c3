package forms

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var allowedImageExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

// ValidateImageUpload checks an uploaded profile picture before any
// bytes are written: size cap first, then a case-insensitive extension
// allow-list. A nil header is valid (the image sub-form was left empty).
func ValidateImageUpload(header *multipart.FileHeader, maxSize int64) Errors {
	errs := Errors{}
	if header == nil {
		return errs
	}

	if header.Size > maxSize {
		errs.Add("image", fmt.Sprintf("Image file too large (>%dMB)", maxSize/(1024*1024)))
		return errs
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	for _, allowed := range allowedImageExtensions {
		if ext == allowed {
			return errs
		}
	}
	errs.Add("image", fmt.Sprintf(
		"Unsupported file extension. Allowed: %s", strings.Join(allowedImageExtensions, ", ")))
	return errs
}
