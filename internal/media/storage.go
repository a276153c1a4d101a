// Package media stores uploaded recipe images on the local filesystem.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"foodgram/internal/config"
)

var ErrInvalidImage = errors.New("invalid image")

const recipesDir = "recipes"

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type Storage struct {
	root string
	url  string
}

func NewStorage(cfg config.MediaConfig) *Storage {
	url := cfg.URL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return &Storage{root: cfg.Root, url: url}
}

// Root is the directory served under URL.
func (s *Storage) Root() string { return s.root }

// URLPrefix is the public prefix without a trailing slash, suitable for router.Static.
func (s *Storage) URLPrefix() string { return strings.TrimSuffix(s.url, "/") }

// SaveDataURI decodes a "data:image/<type>;base64,<payload>" string, writes it
// under the recipes directory and returns the stored path relative to the media root.
func (s *Storage) SaveDataURI(dataURI string) (string, error) {
	header, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", fmt.Errorf("%w: expected a base64 data URI", ErrInvalidImage)
	}
	mime := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	ext, ok := extensions[mime]
	if !ok {
		return "", fmt.Errorf("%w: unsupported type %q", ErrInvalidImage, mime)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	dir := filepath.Join(s.root, recipesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	name := uuid.NewString() + "." + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path.Join(recipesDir, name), nil
}

// URL turns a stored relative path into the public URL clients fetch it from.
func (s *Storage) URL(stored string) string {
	if stored == "" {
		return ""
	}
	return s.url + strings.TrimPrefix(stored, "/")
}

// Remove deletes a previously stored file. Missing files are not an error.
func (s *Storage) Remove(stored string) error {
	if stored == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(stored)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
