// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/section-digest/pkg/types"
)

// PdfcpuExtractor walks each page's content stream with pdfcpu and collects
// the strings shown by text operators. It handles literal strings in simple
// encodings; fonts with custom CMaps produce unreadable text.
type PdfcpuExtractor struct {
	conf *model.Configuration
}

// NewPdfcpuExtractor creates an extractor using pdfcpu's default configuration.
func NewPdfcpuExtractor() *PdfcpuExtractor {
	return &PdfcpuExtractor{conf: model.NewDefaultConfiguration()}
}

// Extract reads and validates the PDF at path and returns one record per page.
func (e *PdfcpuExtractor) Extract(ctx context.Context, path string) ([]types.PageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	pctx, err := api.ReadValidateAndOptimize(f, e.conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}

	pages := make([]types.PageRecord, 0, pctx.PageCount)
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(pctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("reading page %d of %s: %w", pageNr, path, err)
		}
		pages = append(pages, types.NewPageRecord(pageNr, text))
	}
	return pages, nil
}

func pageText(pctx *model.Context, pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return textFromStream(data), nil
}

// pdfStringRe matches PDF literal strings: (text here).
var pdfStringRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// textFromStream interprets the text operators of a content stream, one
// operator per stream line. Td/TD with a vertical offset, T*, ' and ET end
// the current output line.
func textFromStream(data []byte) string {
	var lines []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}
	show := func(line []byte) {
		for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
			cur.WriteString(decodePDFString(m[1]))
		}
	}

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		switch op := lastField(line); op {
		case "Tj", "TJ":
			show(line)
		case "'", `"`:
			flush()
			show(line)
		case "T*", "ET":
			flush()
		case "Td", "TD":
			if movesVertically(line) {
				flush()
			} else if cur.Len() > 0 {
				cur.WriteByte(' ')
			}
		}
	}
	flush()
	return strings.Join(lines, "\n")
}

func lastField(line []byte) string {
	f := bytes.Fields(line)
	if len(f) == 0 {
		return ""
	}
	return string(f[len(f)-1])
}

// movesVertically reports whether a "tx ty Td" operator has a non-zero ty.
func movesVertically(line []byte) bool {
	f := bytes.Fields(line)
	if len(f) < 3 {
		return true
	}
	ty := strings.TrimLeft(string(f[len(f)-2]), "+-")
	return strings.Trim(ty, "0.") != ""
}

// decodePDFString resolves the escape sequences of a PDF literal string.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b', 'f':
		case '\\', '(', ')':
			sb.WriteByte(c)
		default:
			if c < '0' || c > '7' {
				sb.WriteByte(c)
				continue
			}
			val := int(c - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}
