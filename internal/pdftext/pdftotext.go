// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/section-digest/internal/container"
	"github.com/pdiddy/section-digest/pkg/types"
)

// DefaultPdftotextImage is a local image whose entrypoint is poppler's pdftotext.
const DefaultPdftotextImage = "pdftotext:latest"

// pdftotextArgs read the PDF from stdin and write UTF-8 text to stdout.
var pdftotextArgs = []string{"-enc", "UTF-8", "-", "-"}

// PdftotextExtractor pipes PDFs through pdftotext in a container. Pages in
// pdftotext output are separated by form feeds.
type PdftotextExtractor struct {
	runtime container.Runtime
	image   string
}

// NewPdftotextExtractor creates an extractor running image (or
// DefaultPdftotextImage) on rt. It verifies that the image exists locally.
func NewPdftotextExtractor(rt container.Runtime, image string) (*PdftotextExtractor, error) {
	if image == "" {
		image = DefaultPdftotextImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &PdftotextExtractor{runtime: rt, image: image}, nil
}

// Extract runs pdftotext over the PDF at path.
func (e *PdftotextExtractor) Extract(ctx context.Context, path string) ([]types.PageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := e.runtime.Run(e.image, pdftotextArgs, f, &out); err != nil {
		return nil, fmt.Errorf("extracting %s with pdftotext: %w", path, err)
	}
	return splitPages(out.String()), nil
}

// splitPages turns form-feed separated text into page records. The form
// feed that pdftotext writes after the last page does not start a new page.
func splitPages(text string) []types.PageRecord {
	text = strings.TrimSuffix(text, "\f")
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\f")
	pages := make([]types.PageRecord, len(parts))
	for i, p := range parts {
		pages[i] = types.NewPageRecord(i+1, p)
	}
	return pages
}
