// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snippet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		keywords []string
		want     string
	}{
		{
			name: "highest keyword density wins",
			lines: []string{
				"WELCOME TO PARIS",
				"This is the best trip for college friends and friends of friends.",
			},
			keywords: []string{"plan", "trip", "paris", "college", "friends"},
			want:     "This is the best trip for college friends and friends of friends.",
		},
		{
			name:     "first line wins a tie",
			lines:    []string{"hotel near the station", "cheap hotel downtown"},
			keywords: []string{"hotel"},
			want:     "hotel near the station",
		},
		{
			name:     "repeated keyword on a line counts once",
			lines:    []string{"hotel hotel hotel", "hotel and restaurant"},
			keywords: []string{"hotel", "restaurant"},
			want:     "hotel and restaurant",
		},
		{
			name:     "duplicate keywords do not inflate a line",
			lines:    []string{"a trip abroad", "plan a visit"},
			keywords: []string{"trip", "trip", "trip", "plan", "visit"},
			want:     "plan a visit",
		},
		{
			name:     "result is trimmed",
			lines:    []string{"   ", "  local restaurant guide  "},
			keywords: []string{"restaurant"},
			want:     "local restaurant guide",
		},
		{
			name:     "match is case insensitive",
			lines:    []string{"intro", "BEST HOTELS IN NICE"},
			keywords: []string{"hotel"},
			want:     "BEST HOTELS IN NICE",
		},
		{
			name:     "no match falls back to first non-empty line",
			lines:    []string{"", "  First real line ", "second line"},
			keywords: []string{"museum"},
			want:     "First real line",
		},
		{
			name:     "no keywords falls back to first non-empty line",
			lines:    []string{"only line"},
			keywords: nil,
			want:     "only line",
		},
		{
			name:     "all blank",
			lines:    []string{"", "   ", "\t"},
			keywords: []string{"trip"},
			want:     "",
		},
		{
			name:     "no lines",
			lines:    nil,
			keywords: []string{"trip"},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.lines, tt.keywords))
		})
	}
}

func TestSelect_ReturnsInputLine(t *testing.T) {
	lines := []string{" alpha trip ", "beta", "  gamma hotel visit  ", ""}
	got := Select(lines, []string{"trip", "hotel", "visit"})

	found := false
	for _, l := range lines {
		if strings.TrimSpace(l) == got {
			found = true
		}
	}
	assert.True(t, found, "selected %q is not one of the input lines", got)
	assert.Equal(t, "gamma hotel visit", got)
}
