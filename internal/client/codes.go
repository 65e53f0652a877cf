package client

import (
	"fmt"
	"strings"
)

// maxCodeLen bounds derived codes so URLs stay short even for long
// business names. Admin-chosen codes may be longer (up to the format limit).
const maxCodeLen = 24

// DeriveCode turns a business name into a URL-safe base code:
// lowercased, non-alphanumerics stripped, truncated. Names that reduce to
// fewer than three characters fall back to "client".
func DeriveCode(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) > maxCodeLen {
		code = code[:maxCodeLen]
	}
	if len(code) < 3 {
		return "client"
	}
	return code
}

// CandidateCode returns the nth disambiguation candidate for a base code.
// The first candidate is the base itself; collisions get a numeric suffix
// starting at 2, so "acme" is followed by "acme2", "acme3", ...
func CandidateCode(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s%d", base, n)
}
