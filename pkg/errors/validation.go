package errors

import (
	"math"
	"strings"
	"unicode"
)

const maxIdentifierLength = 128

// ValidateIdentifier validates a node or session identifier.
//
// Identifiers end up as Redis keys, Mongo document fields and DOT node names,
// so the rules are conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No quotes or backslashes
//   - Maximum length of 128 characters
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "%s identifier cannot be empty", kind)
	}
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidNode, "%s identifier too long (max %d characters)", kind, maxIdentifierLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidNode, "%s identifier contains whitespace or control characters", kind)
		}
	}
	if strings.ContainsAny(id, "\"'\\") {
		return New(ErrCodeInvalidNode, "%s identifier contains quotes or backslashes", kind)
	}
	return nil
}

// ValidateFidelity checks that v lies in the half-open interval (0, 1].
func ValidateFidelity(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in (0, 1], got %v", name, v)
	}
	return nil
}

// ValidateProbability checks that v lies in the closed interval [0, 1].
func ValidateProbability(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateMin checks that an integer setting is at least min.
func ValidateMin(name string, v, min int) error {
	if v < min {
		return New(ErrCodeInvalidConfig, "%s must be >= %d, got %d", name, min, v)
	}
	return nil
}

// ValidatePositive checks that a floating-point setting is strictly positive.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateOneOf checks that v is one of the allowed values, ignoring case.
// It returns the canonical spelling from allowed.
func ValidateOneOf(code Code, name, v string, allowed ...string) (string, error) {
	for _, a := range allowed {
		if strings.EqualFold(a, v) {
			return a, nil
		}
	}
	return "", New(code, "unknown %s %q (want one of %s)", name, v, strings.Join(allowed, ", "))
}
