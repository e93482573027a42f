package attachment

import (
	"context"
	"fmt"
	"log/slog"
)

// Resolver connects the refund form to the platform picker and share facility
type Resolver struct {
	picker Picker
	sharer Sharer
}

// NewResolver creates a new Resolver
func NewResolver(picker Picker, sharer Sharer) *Resolver {
	return &Resolver{
		picker: picker,
		sharer: sharer,
	}
}

// PickFile runs the picker and returns the selection, or nil when the user
// cancelled. Picker failures are logged and otherwise treated as a cancel.
func (r *Resolver) PickFile(ctx context.Context) *Attachment {
	a, err := r.picker.Pick(ctx)
	if err != nil {
		slog.Error("Failed to pick file", "error", err)
		return nil
	}
	if a == nil {
		slog.Debug("File selection cancelled")
		return nil
	}
	return a
}

// OpenFile opens the attachment behind locator
func (r *Resolver) OpenFile(ctx context.Context, locator string) error {
	if locator == "" {
		return ErrNoAttachment
	}
	if !r.sharer.Available() {
		return ErrSharingUnavailable
	}
	if err := r.sharer.Share(ctx, locator); err != nil {
		slog.Error("Failed to open file", "locator", locator, "error", err)
		return fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	return nil
}
