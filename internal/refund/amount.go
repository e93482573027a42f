package refund

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNegativeValue is returned when a refund value parses below zero
var ErrNegativeValue = errors.New("value must not be negative")

var nonDigits = regexp.MustCompile(`\D`)

// FormatAmountInput turns raw keyboard input into a display amount.
// Every non-digit is dropped and the remaining digits are read as cents,
// so "1234" becomes "12,34" and "" becomes "0,00".
func FormatAmountInput(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		digits = "0"
	}
	cents, err := decimal.NewFromString(digits)
	if err != nil {
		// digits only ever holds [0-9]+
		return "0,00"
	}
	return toDisplay(cents.Shift(-2))
}

// ParseValue parses a display ("45,00") or canonical ("45.00") amount
func ParseValue(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	d, err := decimal.NewFromString(strings.Replace(value, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing value %q: %w", value, err)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeValue
	}
	return d, nil
}

// CanonicalValue converts a display amount into the stored form, e.g. "45,00" -> "45.00"
func CanonicalValue(value string) (string, error) {
	d, err := ParseValue(value)
	if err != nil {
		return "", err
	}
	return d.StringFixed(2), nil
}

// FormatValue renders a stored amount with the locale separator.
// Values that do not parse are returned untouched.
func FormatValue(value string) string {
	d, err := ParseValue(value)
	if err != nil {
		return value
	}
	return toDisplay(d)
}

func toDisplay(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
