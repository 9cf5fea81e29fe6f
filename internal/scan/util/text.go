package util

import "strings"

// CleanText collapses whitespace runs (including non-breaking spaces) into
// single spaces. Scraped HTML and email bodies arrive full of both.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
