// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords derives scoring keywords from a free-text task description.
package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minLength is the exclusive lower bound on a task token's rune length.
const minLength = 2

// DefaultStopwords is the closed list of English function words dropped
// from task text.
var DefaultStopwords = []string{
	"a", "an", "of", "for", "the", "is", "to", "in", "and", "with",
	"on", "at", "by", "or", "but", "as", "are", "was", "were", "be",
	"been", "have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "can", "shall",
}

// DefaultSupplemental is appended to every derived keyword list.
var DefaultSupplemental = []string{
	"trip", "travel", "group", "friends", "college", "days",
	"plan", "visit", "activity", "restaurant", "hotel", "accommodation",
}

var defaultStopSet = toSet(DefaultStopwords)

// Options customises derivation. The zero value uses DefaultStopwords and
// DefaultSupplemental.
type Options struct {
	Stopwords    []string
	Supplemental []string
}

// Derive turns task into an ordered keyword list: task tokens first, then
// the supplemental terms. The result may contain duplicates; callers treat
// it as a multiset.
func Derive(task string, opts Options) []string {
	stop := defaultStopSet
	if opts.Stopwords != nil {
		stop = toSet(opts.Stopwords)
	}
	supplemental := opts.Supplemental
	if supplemental == nil {
		supplemental = DefaultSupplemental
	}

	var out []string
	for _, tok := range strings.Fields(normalize(task)) {
		if utf8.RuneCountInString(tok) <= minLength || stop[tok] {
			continue
		}
		out = append(out, tok)
	}
	for _, s := range supplemental {
		out = append(out, strings.ToLower(s))
	}
	return out
}

// normalize lowercases s and drops every rune that is neither a word
// character nor whitespace.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if isWord(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = true
	}
	return m
}
