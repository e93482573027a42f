package refund

import (
	"fmt"
	"strings"
)

// Validation failure reasons
const (
	ReasonMissingField = "missing field"
	ReasonInvalidField = "invalid field"
)

// ValidationError blocks a submission. Fields lists the offending draft fields
// by their wire names.
type ValidationError struct {
	Reason string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}
