package upload

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Unix(0, 1700000000000000000) }
	return s
}

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"ram photo (1).JPG": "ramphoto1.JPG",
		"../../etc/passwd":  "passwd",
		`..\..\boot.ini`:    "....boot.ini",
		"ñandú.mp4":         "and.mp4",
		"..":                "file",
		"":                  "file",
		"%%%":               "file",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeName(in), in)
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "image", Kind("a.PNG"))
	assert.Equal(t, "image", Kind("a.jpeg"))
	assert.Equal(t, "video", Kind("a.mp4"))
	assert.Equal(t, "video", Kind("noext"))
}

func TestDecode(t *testing.T) {
	raw := []byte("hello farm")
	enc := base64.StdEncoding.EncodeToString(raw)

	got, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = Decode("data:image/png;base64," + enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = Decode(strings.TrimRight(enc, "="))
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = Decode("   ")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = Decode("***")
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	s := newTestStore(t)
	payload := base64.StdEncoding.EncodeToString([]byte("frame"))

	t.Run("writes inside the upload dir", func(t *testing.T) {
		saved, err := s.Save("../../etc/passwd", payload, "")
		require.NoError(t, err)
		assert.Equal(t, "1700000000000000000-passwd", saved.Filename)
		assert.Equal(t, "/uploads/1700000000000000000-passwd", saved.URL)
		assert.Equal(t, s.Dir(), filepath.Dir(saved.Path))
		assert.Equal(t, "video", saved.Kind)

		data, err := os.ReadFile(saved.Path)
		require.NoError(t, err)
		assert.Equal(t, []byte("frame"), data)
	})

	t.Run("kind override", func(t *testing.T) {
		saved, err := s.Save("clip.mp4", payload, "image")
		require.NoError(t, err)
		assert.Equal(t, "image", saved.Kind)

		saved, err = s.Save("photo.jpg", payload, "audio")
		require.NoError(t, err)
		assert.Equal(t, "image", saved.Kind)
	})

	t.Run("bad payload writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		bad, err := NewStore(dir)
		require.NoError(t, err)
		_, err = bad.Save("x.png", "", "")
		assert.Error(t, err)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
