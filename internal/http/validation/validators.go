// Package validation provides small composable validators for query and
// body parameters.
package validation

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Email validates that a field is a parseable email address.
func Email(fieldName string) Validator {
	return func(v string) string {
		if _, err := mail.ParseAddress(strings.TrimSpace(v)); err != nil {
			return "Valid " + fieldName + " is required"
		}
		return ""
	}
}

// RequiredRange validates that a field is not empty and is between minLen and maxLen characters.
// Uses rune count for proper Unicode support.
func RequiredRange(fieldName string, minLen, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required"
		}
		n := utf8.RuneCountInString(v)
		if n < minLen || n > maxLen {
			return fmt.Sprintf("%s must be between %d and %d characters", fieldName, minLen, maxLen)
		}
		return ""
	}
}

// MinLen validates that a field has at least minLen characters.
func MinLen(fieldName string, minLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) < minLen {
			return fmt.Sprintf("%s must be at least %d characters", fieldName, minLen)
		}
		return ""
	}
}

// IntRange validates that a field is a valid integer between minVal and maxVal.
func IntRange(fieldName string, minVal, maxVal int) Validator {
	return func(v string) string {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fieldName + " must be a number"
		}
		if i < minVal || i > maxVal {
			return fmt.Sprintf("%s must be between %d and %d", fieldName, minVal, maxVal)
		}
		return ""
	}
}

// MinInt validates that a field is a valid integer of at least minVal.
func MinInt(fieldName string, minVal int) Validator {
	return func(v string) string {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fieldName + " must be a number"
		}
		if i < minVal {
			return fmt.Sprintf("%s must be at least %d", fieldName, minVal)
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options (case-sensitive).
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		for _, opt := range options {
			if v == opt {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
	}
}

// Required validates that a field is present and non-blank.
func Required(fieldName string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return fieldName + " is required"
		}
		return ""
	}
}

// Any accepts every value. Used for free-form optional parameters that are
// forwarded as-is.
func Any() Validator {
	return func(string) string { return "" }
}

// Optional wraps a validator so empty values pass.
func Optional(inner Validator) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return ""
		}
		return inner(v)
	}
}
