// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snippet chooses the line that best represents a section.
package snippet

import "strings"

// Select returns the trimmed line of lines that contains the most distinct
// keywords. The earliest line wins a tie. When no line contains a keyword,
// Select returns the first non-empty trimmed line, and "" when every line is
// blank.
func Select(lines []string, keywords []string) string {
	kws := distinct(keywords)

	best, bestHits := "", 0
	fallback := ""
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if fallback == "" {
			fallback = line
		}
		if hits := countHits(strings.ToLower(line), kws); hits > bestHits {
			best, bestHits = line, hits
		}
	}

	if bestHits > 0 {
		return best
	}
	return fallback
}

// countHits returns how many keywords occur in line, each counted once.
func countHits(line string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(line, kw) {
			n++
		}
	}
	return n
}

func distinct(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
