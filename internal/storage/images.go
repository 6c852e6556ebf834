// Package storage persists uploaded images on the local filesystem.
// Filenames are derived deterministically from the owning entity, so a
// re-upload overwrites the previous file in place.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extensions maps the accepted upload content types to file extensions.
// Anything else is rejected before any state is touched.
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpeg",
	"image/gif":  ".gif",
}

// ExtensionForContentType returns the file extension for an accepted image
// content type, or false for anything outside the allow-list.
func ExtensionForContentType(contentType string) (string, bool) {
	ext, ok := extensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// ContentTypeForFilename derives the response content type from a stored
// filename's extension.
func ContentTypeForFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// FilmImageName returns the stored filename for a film's hero image.
func FilmImageName(filmID uint64, ext string) string {
	return fmt.Sprintf("film_%d%s", filmID, ext)
}

// UserImageName returns the stored filename for a user's profile image.
func UserImageName(userID uint64, ext string) string {
	return fmt.Sprintf("user_%d%s", userID, ext)
}

// ImageStore reads and writes image files under a single directory.
type ImageStore struct {
	dir string
}

// NewImageStore ensures the directory exists and returns a store over it.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{dir: dir}, nil
}

// Save writes the image bytes to the named file, replacing any previous
// content.
func (s *ImageStore) Save(filename string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, filename), data, 0o644)
}

// Read returns the bytes of a stored image.  os.ErrNotExist surfaces when
// the database references a file that is gone.
func (s *ImageStore) Read(filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filename))
}

// Remove deletes a stored image.  Removing a file that is already gone is
// not an error.
func (s *ImageStore) Remove(filename string) error {
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
