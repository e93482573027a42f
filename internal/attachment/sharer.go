package attachment

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/pkg/browser"
)

// Sharer hands a file to the platform so the user can view or share it
type Sharer interface {
	// Available reports whether the platform can open files at all
	Available() bool

	// Share opens the file behind locator
	Share(ctx context.Context, locator string) error
}

// SystemSharer opens files with the desktop's default application
type SystemSharer struct{}

// openers lists the programs pkg/browser may launch, per platform
var openers = map[string][]string{
	"linux":   {"xdg-open", "x-www-browser", "www-browser"},
	"freebsd": {"xdg-open"},
	"openbsd": {"xdg-open"},
	"netbsd":  {"xdg-open"},
	"darwin":  {"open"},
	"windows": {"rundll32"},
}

// Available reports whether an opener exists on this machine
func (SystemSharer) Available() bool {
	for _, name := range openers[runtime.GOOS] {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// Share opens the file at locator
func (SystemSharer) Share(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(locator); err != nil {
		return fmt.Errorf("locating attachment: %w", err)
	}
	if err := browser.OpenFile(locator); err != nil {
		return fmt.Errorf("launching opener: %w", err)
	}
	return nil
}
