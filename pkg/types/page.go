// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the section-digest pipeline:
// page records produced by text extraction, the scored sections used during
// ranking, the persona input file, and the output document.
package types

import "strings"

// PageRecord is the text of one PDF page as produced by a text extractor.
// Page records are created once per page and not modified afterwards.
type PageRecord struct {
	// PageNumber is the 1-based page index within the document.
	PageNumber int `json:"page_number" yaml:"page_number"`

	// FullText is the complete extracted text of the page.
	FullText string `json:"full_text" yaml:"full_text"`

	// RawLines is FullText split on line breaks, in order.
	RawLines []string `json:"raw_lines" yaml:"raw_lines"`
}

// NewPageRecord builds a PageRecord for page n, splitting text on "\n".
func NewPageRecord(n int, text string) PageRecord {
	return PageRecord{
		PageNumber: n,
		FullText:   text,
		RawLines:   strings.Split(text, "\n"),
	}
}

// ScoredSection is a page paired with its relevance score.
type ScoredSection struct {
	PageRecord

	// Score is the non-negative keyword relevance score.
	Score int `json:"score" yaml:"score"`
}
