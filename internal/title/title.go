// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package title picks heading-like lines out of a page's text.
package title

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fallback labels a section when no heading candidate is found.
const Fallback = "Relevant Section"

// maxCandidates caps the number of candidates returned per page.
const maxCandidates = 3

var (
	sectionWordRe = regexp.MustCompile(`(?i)^(Chapter|Section|Part|Introduction|Conclusion)\s+`)
	mixedCapsRe   = regexp.MustCompile(`^[A-Z][a-zA-Z\s-]+[A-Z].*$`)
)

// rule reports whether a trimmed, non-empty line of n runes looks like a
// heading.
type rule func(line string, n int) bool

// rules are evaluated in order; a line is accepted by the first match.
var rules = []rule{
	func(line string, n int) bool { return n > 3 && n < 80 && isTitleCase(line) },
	func(line string, n int) bool { return n > 3 && n < 50 && isUpperCase(line) },
	func(line string, n int) bool { return sectionWordRe.MatchString(line) },
	func(line string, n int) bool { return n > 5 && n < 60 && strings.HasSuffix(line, ":") },
	func(line string, n int) bool { return n < 60 && mixedCapsRe.MatchString(line) },
}

// Candidates returns up to three distinct heading-like lines from text in
// the order they first appear. It returns nil when no line qualifies.
func Candidates(text string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || seen[line] || !isHeading(line) {
			continue
		}
		seen[line] = true
		out = append(out, line)
		if len(out) == maxCandidates {
			break
		}
	}
	return out
}

// Pick returns the first heading candidate of text, or Fallback.
func Pick(text string) string {
	if c := Candidates(text); len(c) > 0 {
		return c[0]
	}
	return Fallback
}

func isHeading(line string) bool {
	n := utf8.RuneCountInString(line)
	for _, r := range rules {
		if r(line, n) {
			return true
		}
	}
	return false
}

// isTitleCase reports whether every cased run of s starts with an upper or
// title case rune followed only by lower case runes, and s has at least one
// cased rune. Uncased runes (digits, spaces, punctuation) start a new run.
func isTitleCase(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

// isUpperCase reports whether s has at least one cased rune and no lower
// or title case runes.
func isUpperCase(s string) bool {
	upper := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r) || unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return upper
}
