package attachment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// defaultName labels a picked file that has no usable name
const defaultName = "Arquivo selecionado"

// Attachment is a picked receipt: a display name and an opaque locator
type Attachment struct {
	Name    string
	Locator string
}

// Picker asks the platform for a file. A nil Attachment with a nil error
// means the user cancelled.
type Picker interface {
	Pick(ctx context.Context) (*Attachment, error)
}

// PathPicker picks the file at Path and copies it into Cache.
// An empty Path is treated as a cancelled selection.
type PathPicker struct {
	Path  string
	Cache *Cache
}

// Pick copies the selected file into the cache
func (p *PathPicker) Pick(ctx context.Context) (*Attachment, error) {
	if p.Path == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("opening selected file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("inspecting selected file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("selected path %s is a directory", p.Path)
	}

	name := filepath.Base(p.Path)
	if name == "." || name == string(filepath.Separator) {
		name = defaultName
	}

	locator, err := p.Cache.Save(name, f)
	if err != nil {
		return nil, fmt.Errorf("caching selected file: %w", err)
	}

	return &Attachment{Name: name, Locator: locator}, nil
}
