package util

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseGroupedFloat parses a human-formatted number such as "52,345.67".
// Thousands separators and any Unicode whitespace are ignored.
func ParseGroupedFloat(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, fmt.Errorf("parse number: empty input")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return v, nil
}
