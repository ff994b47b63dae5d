// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores page records against a keyword list and orders them
// by relevance.
package rank

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/section-digest/pkg/types"
)

const (
	// textWeight multiplies each keyword occurrence in the full page text.
	textWeight = 3

	longPage   = 500
	mediumPage = 200
)

// Score computes the relevance of page for keywords. Each keyword adds
// three points per non-overlapping occurrence in the lowercased full text
// and one point per raw line containing it. Pages longer than 500 runes get
// two bonus points, longer than 200 runes one.
func Score(page types.PageRecord, keywords []string) int {
	text := strings.ToLower(page.FullText)
	lines := make([]string, len(page.RawLines))
	for i, l := range page.RawLines {
		lines[i] = strings.ToLower(l)
	}

	score := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		score += textWeight * strings.Count(text, kw)
		for _, l := range lines {
			if strings.Contains(l, kw) {
				score++
			}
		}
	}

	return score + lengthBonus(text)
}

func lengthBonus(text string) int {
	switch n := utf8.RuneCountInString(text); {
	case n > longPage:
		return 2
	case n > mediumPage:
		return 1
	default:
		return 0
	}
}

// Rank scores every page and returns those with a positive score, highest
// first. Pages with equal scores keep their input order.
func Rank(pages []types.PageRecord, keywords []string) []types.ScoredSection {
	ranked := make([]types.ScoredSection, 0, len(pages))
	for _, p := range pages {
		s := Score(p, keywords)
		if s <= 0 {
			continue
		}
		ranked = append(ranked, types.ScoredSection{PageRecord: p, Score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
