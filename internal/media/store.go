// Package media owns file storage under the configured media root:
// writing uploads and shrinking oversized profile pictures in place.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ThumbnailMaxSize bounds both sides of a stored profile picture.
const ThumbnailMaxSize = 300

const profileImageDir = "profile_pics"

type Store struct {
	logger zerolog.Logger
	root   string
}

func NewStore(logger zerolog.Logger, root string) *Store {
	return &Store{
		logger: logger,
		root:   root,
	}
}

// SaveProfileImage streams the upload to disk under a fresh name that
// keeps the original extension, and returns the media-relative path.
func (s *Store) SaveProfileImage(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))

	imageUUID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate image name: %w", err)
	}
	relPath := filepath.Join(profileImageDir, imageUUID.String()+ext)

	absPath := filepath.Join(s.root, relPath)
	err = os.MkdirAll(filepath.Dir(absPath), 0o755)
	if err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	_, err = io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	s.logger.Debug().
		Str("path", relPath).
		Msg("stored profile image")
	return relPath, nil
}

// ShrinkOversized reopens a stored image and, when either side exceeds
// ThumbnailMaxSize, downscales it aspect-preserving and overwrites the
// file. Images already within bounds are left untouched.
func (s *Store) ShrinkOversized(relPath string) error {
	absPath := filepath.Join(s.root, relPath)

	img, err := imaging.Open(absPath)
	if err != nil {
		return fmt.Errorf("failed to open stored image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= ThumbnailMaxSize && bounds.Dy() <= ThumbnailMaxSize {
		return nil
	}

	thumb := imaging.Fit(img, ThumbnailMaxSize, ThumbnailMaxSize, imaging.Lanczos)
	err = imaging.Save(thumb, absPath)
	if err != nil {
		return fmt.Errorf("failed to save resized image: %w", err)
	}

	s.logger.Debug().
		Str("path", relPath).
		Int("width", thumb.Bounds().Dx()).
		Int("height", thumb.Bounds().Dy()).
		Msg("resized profile image")
	return nil
}

// Remove deletes a stored file. The placeholder image is never removed.
func (s *Store) Remove(relPath string) error {
	if relPath == "" || filepath.Base(relPath) == relPath {
		return nil
	}
	return os.Remove(filepath.Join(s.root, relPath))
}
