package store

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a filesystem/URL-safe identifier from a company name.
// Lower-cases, collapses every run of non-alphanumeric characters into a
// single hyphen, and strips leading/trailing hyphens. Idempotent.
func Slugify(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
