// Package storage keeps uploaded product images on local disk.
package storage

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamestore/store-admin/config"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// URLPrefix is the path uploads are served under.
const URLPrefix = "/uploads/"

type Local struct {
	dir     string
	baseURL string
}

func NewLocal(cfg config.StorageConfig) (*Local, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create storage dir")
	}
	return &Local{dir: cfg.Dir, baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

// ErrUnsupportedImage is returned by Save for anything but JPEG, PNG, GIF
// or WebP content with a matching extension.
var ErrUnsupportedImage = errors.New("unsupported image")

// imageTypes maps the accepted extensions to their sniffed content type.
var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// sniffLen is the number of bytes http.DetectContentType looks at.
const sniffLen = 512

// Save writes src under a new unique key that keeps the extension of
// filename, and returns the key. The content must be an image of the
// type the extension names.
func (s *Local) Save(filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	expected, ok := imageTypes[ext]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedImage, "extension %q", ext)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", errors.Wrap(err, "read upload")
	}
	head = head[:n]
	if detected := http.DetectContentType(head); detected != expected {
		return "", errors.Wrapf(ErrUnsupportedImage, "content %q for extension %q", detected, ext)
	}

	key := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", errors.Wrap(err, "create upload")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), src)); err != nil {
		_ = os.Remove(dst.Name())
		return "", errors.Wrap(err, "write upload")
	}
	return key, nil
}

// Delete removes the file stored under key. Missing files are ignored.
func (s *Local) Delete(key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete upload")
	}
	return nil
}

// URL returns the public address of key, or "" without a key.
func (s *Local) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + URLPrefix + key
}

// Handler serves stored files under URLPrefix. Browsers are told not to
// sniff, so a file is only ever rendered as the type of its extension.
func (s *Local) Handler() http.Handler {
	files := http.StripPrefix(URLPrefix, http.FileServer(http.Dir(s.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		files.ServeHTTP(w, r)
	})
}
