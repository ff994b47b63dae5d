// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts page-ordered plain text from PDF files with
// pluggable backends: ledongthuc/pdf (default), pdfcpu, and poppler's
// pdftotext run in a container.
package pdftext

import (
	"context"
	"fmt"

	"github.com/pdiddy/section-digest/internal/container"
	"github.com/pdiddy/section-digest/pkg/types"
)

// Extractor turns a PDF file into one PageRecord per page, in page order.
// Pages without a text layer yield records with empty text.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]types.PageRecord, error)
}

// RuntimeDetector finds a container runtime for backends that need one.
type RuntimeDetector func() (container.Runtime, error)

// New returns the extractor selected by cfg.Backend. An empty backend
// selects ledongthuc. detect is only called for the pdftotext backend.
func New(cfg types.ExtractionConfig, detect RuntimeDetector) (Extractor, error) {
	switch cfg.Backend {
	case "", types.BackendLedongthuc:
		return NewLedongthucExtractor(), nil
	case types.BackendPdfcpu:
		return NewPdfcpuExtractor(), nil
	case types.BackendPdftotext:
		if detect == nil {
			detect = container.DetectRuntime
		}
		rt, err := detect()
		if err != nil {
			return nil, err
		}
		return NewPdftotextExtractor(rt, cfg.Image)
	default:
		return nil, fmt.Errorf("unknown extraction backend %q (want %s, %s, or %s)",
			cfg.Backend, types.BackendLedongthuc, types.BackendPdfcpu, types.BackendPdftotext)
	}
}
