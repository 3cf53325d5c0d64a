package domain

import (
	"strconv"
	"strings"
)

// ParseAge converts a raw numeric token into an age. Fractional, exponent or
// otherwise non-integer input is rejected rather than truncated.
func ParseAge(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, Invalid("age", "must be an integer")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, Invalid("age", "must be an integer")
	}
	if n < 0 {
		return 0, Invalid("age", "must not be negative")
	}
	return n, nil
}
