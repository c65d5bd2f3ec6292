package analysis

import (
	"regexp"
	"strings"
)

var (
	fullWidthReplacer = strings.NewReplacer(
		"，", ",",
		"：", ":",
		"；", ";",
		"（", "(",
		"）", ")",
		"　", " ",
	)
	commaRunRe = regexp.MustCompile(`\s*,[\s,]*`)
	spaceRunRe = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes one address string: full-width punctuation folded
// to half-width, comma and whitespace runs collapsed to single separators,
// leading and trailing separators trimmed. Idempotent; empty input stays
// empty.
func Normalize(raw string) string {
	s := strings.TrimSpace(fullWidthReplacer.Replace(raw))
	s = commaRunRe.ReplaceAllString(s, ",")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.Trim(s, ", ")
}

// cleanupLine strips common OCR prefix noise before a line is scored.
func cleanupLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "：", ":")
	s = strings.ReplaceAll(s, "公司:", "")
	return spaceRunRe.ReplaceAllString(s, " ")
}
