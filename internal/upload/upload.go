package upload

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/otjiningirua/owfarm/internal/domain"
)

// URLPrefix is the public path uploaded files are served from
const URLPrefix = "/uploads/"

var (
	ErrEmptyPayload = errors.New("empty upload payload")

	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

	imageExts = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true, ".svg": true,
	}
)

// Saved describes a file written to the upload area
type Saved struct {
	Filename string
	Path     string
	URL      string
	Kind     string
}

// Store writes decoded uploads below one directory
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve upload dir %s", dir)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", abs)
	}
	return &Store{dir: abs, now: time.Now}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// SafeName strips everything outside [a-zA-Z0-9_.-]. A name that reduces
// to nothing or to dots only becomes "file".
func SafeName(filename string) string {
	name := unsafeChars.ReplaceAllString(filepath.Base(filepath.ToSlash(filename)), "")
	if strings.Trim(name, ".") == "" {
		return "file"
	}
	return name
}

// Kind infers the media kind from the file extension. Anything that is not
// a known image format is treated as video.
func Kind(filename string) string {
	if imageExts[strings.ToLower(filepath.Ext(filename))] {
		return domain.MediaImage
	}
	return domain.MediaVideo
}

// Decode accepts plain base64 as well as a data URL
func Decode(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ","); i >= 0 {
			payload = payload[i+1:]
		}
	}
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, errors.Wrap(err, "decode base64")
		}
	}
	return data, nil
}

// Save decodes payload and writes it as <unix-nanos>-<safe name>. kind
// overrides the inferred media kind when it is image or video.
func (s *Store) Save(filename, payload, kind string) (*Saved, error) {
	data, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%d-%s", s.now().UnixNano(), SafeName(filename))
	target := filepath.Join(s.dir, name)
	if filepath.Dir(target) != s.dir {
		return nil, errors.Errorf("upload path escapes %s", s.dir)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, errors.Wrapf(err, "write upload %s", name)
	}
	if kind != domain.MediaImage && kind != domain.MediaVideo {
		kind = Kind(name)
	}
	return &Saved{Filename: name, Path: target, URL: URLPrefix + name, Kind: kind}, nil
}
