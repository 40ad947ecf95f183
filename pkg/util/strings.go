package util

import "strings"

const EmptyString = ""

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == EmptyString
}

// MaskSecret keeps the first four characters of s and stars out the rest.
func MaskSecret(s string) string {
	const visible = 4
	if len(s) <= visible {
		return strings.Repeat("*", len(s))
	}
	return s[:visible] + strings.Repeat("*", len(s)-visible)
}
