package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// LocalUploader keeps objects as files under a root directory. It is used
// when no bucket is configured.
type LocalUploader struct {
	root      string
	urlPrefix string
}

// NewLocalUploader stores files under root and builds public URLs as
// urlPrefix + key.
func NewLocalUploader(root, urlPrefix string) *LocalUploader {
	return &LocalUploader{
		root:      root,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/") + "/",
	}
}

func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key || strings.HasPrefix(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func (u *LocalUploader) path(key string) string {
	return filepath.Join(u.root, filepath.FromSlash(key))
}

func (u *LocalUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	dst := u.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create file for %s: %w", key, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return nil, fmt.Errorf("failed to write file for %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file for %s: %w", key, err)
	}

	return &UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *LocalUploader) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.Remove(u.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file for %s: %w", key, err)
	}
	return nil
}

// List walks the root. A missing root is an empty listing.
func (u *LocalUploader) List(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := filepath.WalkDir(u.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == u.root {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(u.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", u.root, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (u *LocalUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return u.urlPrefix + key
}
