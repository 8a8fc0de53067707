package catalog

import (
	"regexp"
	"strings"
)

// Only a trailing four-digit group counts as a year; the greedy title
// capture keeps earlier digit groups inside the title.
var queryRe = regexp.MustCompile(`^(.+)\s+(\d{4})$`)

// ParseQuery splits a free-text query into a title and an optional year.
// "Inception 2010" yields ("Inception", "2010"); text without a trailing
// year comes back verbatim with an empty year.
func ParseQuery(q string) (title, year string) {
	if m := queryRe.FindStringSubmatch(q); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return strings.TrimSpace(q), ""
}
