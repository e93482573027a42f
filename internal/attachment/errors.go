package attachment

import "errors"

var (
	// ErrNoAttachment is returned when opening a refund without a receipt locator
	ErrNoAttachment = errors.New("no attachment")

	// ErrSharingUnavailable is returned when the platform cannot open files
	ErrSharingUnavailable = errors.New("sharing unavailable on this platform")

	// ErrOpenFailed wraps any failure of the platform share/open action
	ErrOpenFailed = errors.New("opening attachment failed")
)
