package attachment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Cache keeps private copies of picked receipts on the local filesystem
type Cache struct {
	basePath string
}

// NewCache creates a new Cache rooted at basePath
func NewCache(basePath string) (*Cache, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Cache{
		basePath: abs,
	}, nil
}

// Save copies r into the cache and returns the absolute path of the copy.
// Copies are prefixed with a random UUID so equal names never collide.
func (c *Cache) Save(name string, r io.Reader) (string, error) {
	path := filepath.Join(c.basePath, uuid.NewString()+"_"+filepath.Base(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating cached file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing cached file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing cached file: %w", err)
	}
	return path, nil
}

// Delete removes a cached file
func (c *Cache) Delete(path string) error {
	if err := c.contains(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// Path returns the cache directory
func (c *Cache) Path() string {
	return c.basePath
}

func (c *Cache) contains(path string) error {
	rel, err := filepath.Rel(c.basePath, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q is outside the cache", path)
	}
	return nil
}
