// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/section-digest/pkg/types"
)

// wordGap is the horizontal gap, as a fraction of the font size, above which
// two text runs on a row are separated by a space.
const wordGap = 0.15

// LedongthucExtractor reads the embedded text layer with
// github.com/ledongthuc/pdf. Scanned, image-only pages come back empty.
type LedongthucExtractor struct{}

// NewLedongthucExtractor creates the default extractor.
func NewLedongthucExtractor() *LedongthucExtractor {
	return &LedongthucExtractor{}
}

// Extract reads every page of the PDF at path, rebuilding each page's text
// row by row so that raw lines follow the visual rows of the page.
func (e *LedongthucExtractor) Extract(ctx context.Context, path string) (pages []types.PageRecord, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parsing PDF %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	pages = make([]types.PageRecord, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := r.Page(i)
		text := ""
		if !p.V.IsNull() {
			rows, err := p.GetTextByRow()
			if err != nil {
				return nil, fmt.Errorf("reading page %d of %s: %w", i, path, err)
			}
			text = joinRows(rows)
		}
		pages = append(pages, types.NewPageRecord(i, text))
	}
	return pages, nil
}

// joinRows renders rows as newline-separated lines.
func joinRows(rows pdf.Rows) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, joinRow(row.Content))
	}
	return strings.Join(lines, "\n")
}

// joinRow concatenates the text runs of one row, inserting a space where
// the gap between consecutive runs is wider than wordGap of the font size.
func joinRow(runs pdf.TextHorizontal) string {
	var b strings.Builder
	var prevEnd float64
	for i, t := range runs {
		if i > 0 && needsSpace(&b, t, prevEnd) {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		prevEnd = runEnd(t)
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// runEnd returns the right edge of t. Fonts without a width table report
// W as zero; their runs are assumed to be half an em per rune.
func runEnd(t pdf.Text) float64 {
	if t.W > 0 {
		return t.X + t.W
	}
	return t.X + 0.5*t.FontSize*float64(utf8.RuneCountInString(t.S))
}

func needsSpace(b *strings.Builder, t pdf.Text, prevEnd float64) bool {
	if b.Len() == 0 || t.S == "" {
		return false
	}
	s := b.String()
	if strings.HasSuffix(s, " ") || strings.HasPrefix(t.S, " ") {
		return false
	}
	return t.X-prevEnd > wordGap*t.FontSize
}
