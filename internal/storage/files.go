// Package storage keeps uploaded files on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore writes files under Root and exposes them below URLPrefix
type FileStore struct {
	Root      string
	URLPrefix string
}

func NewFileStore(root, urlPrefix string) *FileStore {
	return &FileStore{Root: root, URLPrefix: "/" + strings.Trim(urlPrefix, "/")}
}

// Save stores r in the folder directory under a fresh random name that keeps
// the extension of originalName, and returns the public URL of the file.
func (s *FileStore) Save(folder, originalName string, r io.Reader) (string, error) {
	dir := filepath.Join(s.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + filepath.Ext(filepath.Base(originalName))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path.Join(s.URLPrefix, folder, name), nil
}

// Remove deletes a file previously returned by Save
func (s *FileStore) Remove(url string) error {
	rel := strings.TrimPrefix(url, s.URLPrefix+"/")
	if rel == url || strings.Contains(rel, "..") {
		return fmt.Errorf("not a stored file: %s", url)
	}
	return os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
}
