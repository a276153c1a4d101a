package media

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/config"
)

func TestSaveDataURI(t *testing.T) {
	root := t.TempDir()
	storage := NewStorage(config.MediaConfig{Root: root, URL: "/media"})
	payload := []byte("\x89PNG fake image bytes")

	stored, err := storage.SaveDataURI("data:image/png;base64," + base64.StdEncoding.EncodeToString(payload))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "recipes/"))
	assert.True(t, strings.HasSuffix(stored, ".png"))

	written, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored)))
	require.NoError(t, err)
	assert.Equal(t, payload, written)

	assert.Equal(t, "/media/"+stored, storage.URL(stored))
	assert.Equal(t, "", storage.URL(""))
	assert.Equal(t, "/media", storage.URLPrefix())

	require.NoError(t, storage.Remove(stored))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(stored)))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoError(t, storage.Remove(stored))
}

func TestSaveDataURIRejects(t *testing.T) {
	storage := NewStorage(config.MediaConfig{Root: t.TempDir(), URL: "/media/"})

	for name, input := range map[string]string{
		"NotDataURI":  "https://example.com/cat.png",
		"NoBase64":    "data:image/png,abc",
		"Unsupported": "data:application/pdf;base64,QUJD",
		"BadPayload":  "data:image/png;base64,***",
		"Empty":       "data:image/png;base64,",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := storage.SaveDataURI(input)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}
